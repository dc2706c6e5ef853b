package model

// LogRecord is one access-log line split into its combined-log-format fields.
// All fields keep their raw text; nothing is validated or converted.
type LogRecord struct {
	IP      string
	Time    string // raw timestamp between the brackets
	Request string // "METHOD PATH PROTOCOL", may be empty
	Status  string // three digits
	Size    string // may be "-"
}

// RankedCount is one entry of a "most common" listing.
type RankedCount struct {
	Key   string
	Count int
}
