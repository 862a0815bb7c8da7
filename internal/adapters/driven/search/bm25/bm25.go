// Package bm25 provides a pure-Go Okapi BM25 keyword index over an
// append-only corpus. It backs the SearchEngine port for evidence
// retrieval; there is no deletion or update, and retrieval never
// mutates the index.
package bm25

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

// Default Okapi BM25 parameters.
const (
	DefaultK1 = 1.5
	DefaultB  = 0.75
)

// ErrEmptyQuery indicates the query text tokenized to nothing.
// Callers treat this as an empty result set.
var ErrEmptyQuery = fmt.Errorf("%w: query has no tokens", domain.ErrInvalidInput)

// Hit is a scored document reference.
type Hit struct {
	// ID is the document identifier passed to Add.
	ID string

	// Score is the BM25 score, always > 0.
	Score float64

	// Payload is the payload passed to Add, if any.
	Payload map[string]string
}

// document is one indexed corpus entry.
type document struct {
	id       string
	termFreq map[string]int
	length   int
	payload  map[string]string
}

// Index is an append-only BM25 index. It is owned by one caller at a
// time; concurrent mutation is not supported.
type Index struct {
	k1 float64
	b  float64

	docs     []document
	docFreq  map[string]int
	totalLen int
}

// Option configures an Index.
type Option func(*Index)

// WithK1 sets the term-frequency saturation parameter.
func WithK1(k1 float64) Option {
	return func(i *Index) {
		if k1 > 0 {
			i.k1 = k1
		}
	}
}

// WithB sets the length-normalisation parameter.
func WithB(b float64) Option {
	return func(i *Index) {
		if b >= 0 {
			i.b = b
		}
	}
}

// New creates an empty index with the given options.
func New(opts ...Option) *Index {
	idx := &Index{
		k1:      DefaultK1,
		b:       DefaultB,
		docFreq: make(map[string]int),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Len returns the number of indexed documents.
func (i *Index) Len() int {
	return len(i.docs)
}

// Add appends a document to the corpus. Document frequency is updated
// once per distinct term and the corpus average length is recomputed on
// every insert.
func (i *Index) Add(id, text string, payload map[string]string) {
	tokens := Tokenize(text)

	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	for term := range tf {
		i.docFreq[term]++
	}

	i.docs = append(i.docs, document{
		id:       id,
		termFreq: tf,
		length:   len(tokens),
		payload:  payload,
	})
	i.totalLen += len(tokens)
}

// Query returns up to topK documents ordered by descending BM25 score.
// Zero-score documents are omitted. Ordering of equal-score documents
// is stable: they come back in insertion order. An empty corpus returns
// an empty result; a query with no tokens returns ErrEmptyQuery.
func (i *Index) Query(query string, topK int) ([]Hit, error) {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}
	if len(i.docs) == 0 || topK <= 0 {
		return []Hit{}, nil
	}

	avgdl := float64(i.totalLen) / float64(len(i.docs))
	if avgdl == 0 {
		avgdl = 1
	}

	type scored struct {
		ord   int
		score float64
	}
	var results []scored

	for ord, doc := range i.docs {
		var score float64
		for _, term := range terms {
			f := doc.termFreq[term]
			if f == 0 {
				continue
			}
			score += i.idf(term) * i.termScore(float64(f), float64(doc.length), avgdl)
		}
		if score > 0 {
			results = append(results, scored{ord: ord, score: score})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].score > results[b].score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	hits := make([]Hit, len(results))
	for n, r := range results {
		hits[n] = Hit{
			ID:      i.docs[r.ord].id,
			Score:   r.score,
			Payload: i.docs[r.ord].payload,
		}
	}
	return hits, nil
}

// idf computes log(1 + (N - df + 0.5) / (df + 0.5)).
func (i *Index) idf(term string) float64 {
	n := float64(len(i.docs))
	df := float64(i.docFreq[term])
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

// termScore computes the per-document BM25 contribution for a term with
// frequency f in a document of length dl.
func (i *Index) termScore(f, dl, avgdl float64) float64 {
	denom := f + i.k1*(1-i.b+i.b*dl/avgdl)
	if denom == 0 {
		denom = 1
	}
	return f * (i.k1 + 1) / denom
}

// Tokenize lowercases the input and extracts maximal runs of [a-z0-9].
// Case folding is ASCII-only so tokenization is locale-independent.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			flush()
		}
	}
	flush()

	return tokens
}
