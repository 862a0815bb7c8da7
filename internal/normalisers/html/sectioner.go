// Package html provides the streaming HTML sectioner. It splits a
// document into (heading, text) sections at h1..h6 boundaries using a
// tag-driven tokenizer pass; character references are resolved and
// whitespace is collapsed on every text flush.
package html

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// Ensure Sectioner implements the interface.
var _ driven.Sectioner = (*Sectioner)(nil)

// Sectioner handles HTML documents.
type Sectioner struct{}

// New creates a new HTML sectioner.
func New() *Sectioner {
	return &Sectioner{}
}

// SupportedMIMETypes returns the MIME types this sectioner handles.
func (s *Sectioner) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (s *Sectioner) Priority() int {
	return 50
}

// Section parses HTML bytes into an ordered document record.
// The tag policy:
//   - h1..h6 end the current section; a repeated heading appends to its
//     existing section instead of inserting a duplicate
//   - the first non-empty <title> text becomes the document title
//   - <p> and <li> insert a newline before their text
//   - script, style, and noscript content is dropped
//   - all other tags contribute their text to the current section
func (s *Sectioner) Section(_ context.Context, raw *domain.RawSource) (*domain.DocumentRecord, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	p := newParser()
	z := html.NewTokenizer(bytes.NewReader(raw.Content))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a malformed tail: either way the stream is done.
			break
		}

		switch tt {
		case html.TextToken:
			p.text(string(z.Text()))

		case html.StartTagToken:
			name, _ := z.TagName()
			p.startTag(string(name))

		case html.EndTagToken:
			name, _ := z.TagName()
			p.endTag(string(name))
		}
	}

	sections := p.finalize()

	return &domain.DocumentRecord{
		SourceID:    raw.SourceID,
		ContentType: domain.ContentTypeHTML,
		Title:       p.title,
		Sections:    sections,
		Extra: map[string]string{
			"format": "html",
			"bytes":  strconv.Itoa(len(raw.Content)),
		},
	}, nil
}

// parser accumulates sections during the tokenizer pass.
type parser struct {
	title      string
	curHeading string

	// buf holds collapsed text fragments for the current section;
	// "\n" entries mark p/li boundaries.
	buf []string

	sections []domain.DocumentSection
	// secIdx maps a heading to the index of its (single) section so a
	// repeated heading merges into the prior section.
	secIdx map[string]int

	headingBuf []string
	inHeading  bool
	inTitle    bool
	skipDepth  int
}

func newParser() *parser {
	return &parser{secIdx: make(map[string]int)}
}

// isHeading reports whether the tag is h1..h6.
func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// isSkipped reports whether the tag's content is dropped entirely.
func isSkipped(tag string) bool {
	return tag == "script" || tag == "style" || tag == "noscript"
}

func (p *parser) startTag(tag string) {
	switch {
	case isSkipped(tag):
		p.skipDepth++
	case isHeading(tag):
		p.flush()
		p.inHeading = true
		p.headingBuf = nil
	case tag == "title":
		p.inTitle = true
	case tag == "p" || tag == "li":
		p.buf = append(p.buf, "\n")
	}
}

func (p *parser) endTag(tag string) {
	switch {
	case isSkipped(tag):
		if p.skipDepth > 0 {
			p.skipDepth--
		}
	case isHeading(tag):
		p.endHeading()
	case tag == "title":
		p.inTitle = false
	}
}

func (p *parser) text(data string) {
	if p.skipDepth > 0 {
		return
	}

	collapsed := collapse(data)

	if p.inTitle {
		if p.title == "" && collapsed != "" {
			p.title = collapsed
		}
		return
	}

	if collapsed == "" {
		return
	}

	if p.inHeading {
		p.headingBuf = append(p.headingBuf, collapsed)
		return
	}

	p.buf = append(p.buf, collapsed)
}

// endHeading closes the heading tag: the heading text becomes the
// current heading and gets a section, created empty if it is new.
func (p *parser) endHeading() {
	if !p.inHeading {
		return
	}
	p.inHeading = false
	p.curHeading = collapse(strings.Join(p.headingBuf, " "))
	p.headingBuf = nil
	p.ensureSection(p.curHeading)
}

// ensureSection returns the section index for a heading, appending a
// new empty section the first time the heading is seen.
func (p *parser) ensureSection(heading string) int {
	if idx, ok := p.secIdx[heading]; ok {
		return idx
	}
	p.sections = append(p.sections, domain.DocumentSection{Heading: heading})
	idx := len(p.sections) - 1
	p.secIdx[heading] = idx
	return idx
}

// flush joins buffered fragments, normalises whitespace line by line,
// and appends the result to the current heading's section. Text seen
// before any heading lands in a section with an empty heading.
func (p *parser) flush() {
	if len(p.buf) == 0 {
		return
	}
	joined := strings.Join(p.buf, " ")
	p.buf = nil

	var lines []string
	for _, line := range strings.Split(joined, "\n") {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	text := strings.Join(lines, "\n")
	if text == "" {
		return
	}

	idx := p.ensureSection(p.curHeading)
	if p.sections[idx].Text == "" {
		p.sections[idx].Text = text
	} else {
		p.sections[idx].Text += "\n" + text
	}
}

// finalize flushes any residual buffer and guarantees at least one
// section in the record.
func (p *parser) finalize() []domain.DocumentSection {
	p.flush()
	if len(p.sections) == 0 {
		p.sections = []domain.DocumentSection{{}}
	}
	return p.sections
}

// collapse reduces every whitespace run to a single space and trims.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
