// Package pdf provides the PDF sectioner. Text extraction is delegated
// to an external extractor (pdftotext); each non-empty page becomes one
// section. No layout-aware sectioning is attempted.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// Ensure Sectioner implements the interface.
var _ driven.Sectioner = (*Sectioner)(nil)

// extractorBinary is the external PDF text extractor. Pages arrive on
// stdout separated by form feeds.
const extractorBinary = "pdftotext"

// Sectioner handles PDF documents.
type Sectioner struct {
	// lookPath resolves the extractor binary. Overridable in tests.
	lookPath func(string) (string, error)

	// run executes the extractor. Overridable in tests.
	run func(ctx context.Context, bin, path string) ([]byte, error)
}

// New creates a new PDF sectioner.
func New() *Sectioner {
	return &Sectioner{
		lookPath: exec.LookPath,
		run:      runExtractor,
	}
}

// SupportedMIMETypes returns the MIME types this sectioner handles.
func (s *Sectioner) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (s *Sectioner) Priority() int {
	return 50
}

// Section extracts per-page text and emits one section per non-empty
// page, headed "Page <n>" with n 1-indexed. A document with no text
// yields a single empty placeholder section. Returns
// domain.ErrPDFUnavailable when no extractor is installed.
func (s *Sectioner) Section(ctx context.Context, raw *domain.RawSource) (*domain.DocumentRecord, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	bin, err := s.lookPath(extractorBinary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found", domain.ErrPDFUnavailable, extractorBinary)
	}

	tmp, err := os.CreateTemp("", "arpgen-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := s.run(ctx, bin, tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", filepath.Base(raw.URI), err)
	}

	pages := strings.Split(string(out), "\f")
	sections := make([]domain.DocumentSection, 0, len(pages))
	for i, page := range pages {
		text := NormalizePage(page)
		if text == "" {
			continue
		}
		sections = append(sections, domain.DocumentSection{
			Heading: fmt.Sprintf("Page %d", i+1),
			Text:    text,
		})
	}

	if len(sections) == 0 {
		sections = []domain.DocumentSection{{}}
	}

	return &domain.DocumentRecord{
		SourceID:    raw.SourceID,
		ContentType: domain.ContentTypePDF,
		Title:       titleFromURI(raw.URI),
		Sections:    sections,
		Extra: map[string]string{
			"format":    "pdf",
			"extractor": extractorBinary,
			"pages":     strconv.Itoa(len(pages)),
		},
	}, nil
}

// runExtractor invokes the extractor with output to stdout.
func runExtractor(ctx context.Context, bin, path string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-enc", "UTF-8", path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", extractorBinary, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

var (
	trailingWS   = regexp.MustCompile(`\s+\n`)
	horizontalWS = regexp.MustCompile(`[ \t]+`)
)

// NormalizePage collapses extractor whitespace: any whitespace run
// ending in a newline becomes a single newline (so blank-line runs
// collapse), horizontal runs become single spaces, and the page is
// trimmed.
func NormalizePage(page string) string {
	page = trailingWS.ReplaceAllString(page, "\n")
	page = horizontalWS.ReplaceAllString(page, " ")
	return strings.TrimSpace(page)
}

// titleFromURI derives a display title from the source file name.
func titleFromURI(uri string) string {
	name := filepath.Base(uri)
	if name == "." || name == "/" {
		return ""
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
