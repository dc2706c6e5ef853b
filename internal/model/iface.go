package model

// RecordParser turns one raw line into a LogRecord.
// ok is false when the line does not follow the access-log grammar.
type RecordParser interface {
	Parse(line string) (record LogRecord, ok bool)
}

// RequestMatcher classifies a request string against a list of sensitive paths.
// matched is the matched text, in the case it had in the request.
type RequestMatcher interface {
	Match(request string) (matched string, ok bool)
}
