package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ChunkMeta carries activity-scoped metadata fanned out onto every chunk
// built from a document record.
type ChunkMeta struct {
	// ActivityID links chunks to the activity under review.
	ActivityID int

	// SourceID overrides the record's source identity when set.
	SourceID string

	// Jurisdiction is the legal jurisdiction of the source.
	Jurisdiction string

	// AuthorityClass describes the issuing authority (regulator,
	// standards body, operator guidance, etc).
	AuthorityClass string

	// PublicationDate is the source publication date, free-form text.
	PublicationDate string
}

// Chunk is a retrieval unit derived from one document section plus
// activity metadata. It is produced once per ingestion and never updated.
type Chunk struct {
	// ChunkID is a stable 16-hex fingerprint of (source_id, heading, text).
	ChunkID string `json:"chunk_id"`

	// ActivityID links to the activity under review.
	ActivityID int `json:"activity_id"`

	// SourceID is the identity of the source document.
	SourceID string `json:"source_id"`

	// Heading is the section heading the chunk came from.
	Heading string `json:"heading"`

	// Text is the non-empty, whitespace-collapsed chunk body.
	Text string `json:"text"`

	// Jurisdiction is copied from the chunk metadata.
	Jurisdiction string `json:"jurisdiction"`

	// AuthorityClass is copied from the chunk metadata.
	AuthorityClass string `json:"authority_class"`

	// PublicationDate is copied from the chunk metadata.
	PublicationDate string `json:"publication_date"`

	// Loc is "section:<idx>" using the original section index, so it
	// stays aligned with the source document even when empty sections
	// are skipped.
	Loc string `json:"loc"`
}

// ChunkID computes the stable chunk fingerprint: the first 16 hex
// characters of SHA-256 over "source_id\nheading\ntext". It depends only
// on those three values, so permuting unrelated sections never changes
// an existing chunk's identity.
func ChunkID(sourceID, heading, text string) string {
	sum := sha256.Sum256([]byte(sourceID + "\n" + heading + "\n" + text))
	return hex.EncodeToString(sum[:])[:16]
}

// BuildChunks emits one chunk per section whose trimmed text is
// non-empty. Sections that trim to empty are skipped but still consume
// their original index in Loc.
func BuildChunks(rec *DocumentRecord, meta ChunkMeta) []Chunk {
	if rec == nil {
		return nil
	}

	sourceID := meta.SourceID
	if sourceID == "" {
		sourceID = rec.SourceID
	}

	chunks := make([]Chunk, 0, len(rec.Sections))
	for i, sec := range rec.Sections {
		text := strings.TrimSpace(sec.Text)
		if text == "" {
			continue
		}

		chunks = append(chunks, Chunk{
			ChunkID:         ChunkID(sourceID, sec.Heading, text),
			ActivityID:      meta.ActivityID,
			SourceID:        sourceID,
			Heading:         sec.Heading,
			Text:            text,
			Jurisdiction:    meta.Jurisdiction,
			AuthorityClass:  meta.AuthorityClass,
			PublicationDate: meta.PublicationDate,
			Loc:             fmt.Sprintf("section:%d", i),
		})
	}

	return chunks
}
