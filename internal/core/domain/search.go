package domain

// SearchOptions configures an evidence query.
type SearchOptions struct {
	// Limit is the maximum number of hits (default 10).
	Limit int

	// SourceIDs filters hits to specific sources.
	SourceIDs []string
}

// EvidenceHit is a retrieved chunk with its relevance score.
type EvidenceHit struct {
	// Chunk is the matched retrieval unit.
	Chunk Chunk

	// Score is the BM25 relevance score, always > 0.
	Score float64
}
