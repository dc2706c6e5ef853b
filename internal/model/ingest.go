package model

// IngestEnvelope carries one raw log line with source metadata.
// It is the transport contract between a log source and the aggregation passes.
type IngestEnvelope struct {
	Source string
	LineNo int // 1-based
	Line   string

	// Oversized marks a line that exceeded the source's size limit.
	// Line is empty and the line must be treated as unparsable.
	Oversized bool
}
