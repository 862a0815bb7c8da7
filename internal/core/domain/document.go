package domain

// ContentType identifies which sectioner produced a document record.
type ContentType string

const (
	// ContentTypeHTML marks records produced by the HTML sectioner.
	ContentTypeHTML ContentType = "html"

	// ContentTypePDF marks records produced by the PDF sectioner.
	ContentTypePDF ContentType = "pdf"

	// ContentTypeUnknown marks records produced by fallback sectioners.
	ContentTypeUnknown ContentType = "unknown"
)

// DocumentSection is a single (heading, text) unit of a sectioned document.
// Sections are immutable and appear in document order. An empty Text is
// permitted only as a placeholder for a bare heading.
type DocumentSection struct {
	// Heading is the section heading. Empty for text that precedes the
	// first heading in the source document.
	Heading string `json:"heading"`

	// Text is the whitespace-collapsed section body.
	Text string `json:"text"`
}

// DocumentRecord is the uniform output of every sectioner.
type DocumentRecord struct {
	// SourceID is the caller-provided identity of the source document.
	SourceID string `json:"source_id"`

	// ContentType matches the sectioner that produced this record.
	ContentType ContentType `json:"content_type"`

	// Title is the document title, when the source carries one.
	Title string `json:"title"`

	// Sections holds the ordered sections. At least one section is
	// always present, possibly an empty sentinel for empty sources.
	Sections []DocumentSection `json:"sections"`

	// Extra carries parser provenance (page counts, byte sizes, etc).
	Extra map[string]string `json:"extra,omitempty"`
}

// RawSource represents opaque bytes handed to a sectioner.
// It is the connector's output before sectioning.
type RawSource struct {
	// SourceID is the caller-provided identity of the source document.
	SourceID string

	// URI is the original location (file path, URL, etc).
	URI string

	// MIMEType is the content type (e.g., "text/html").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
