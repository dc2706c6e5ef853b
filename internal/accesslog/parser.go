package accesslog

import (
	"fmt"
	"regexp"

	"github.com/Luiz-Camacho/analyze-logs/internal/model"
)

// Unicode-aware stand-ins for \S and \d. RE2 classes are ASCII-only, so a
// no-break space would otherwise count as part of a field and non-ASCII
// digits would not count as digits.
const (
	nonSpace = `[^\t\n\v\f\r\x{1c}-\x{1f}\x{85}\p{Z}]`
	digit    = `\p{Nd}`
)

// CombinedLogPattern matches the leading fields of an Apache/NGINX combined log line:
//
//	1.2.3.4 - - [10/Oct/2023:13:55:36 +0000] "GET /path HTTP/1.1" 200 512
//
// It is unanchored, so lines with a syslog or container prefix still parse.
const CombinedLogPattern = `(?P<ip>` + nonSpace + `+) ` + nonSpace + `+ ` + nonSpace + `+ ` +
	`\[(?P<time>[^\]]+)\] "(?P<request>[^"]*)" (?P<status>` + digit + `{3}) (?P<size>` + nonSpace + `+)`

var requiredGroups = []string{"ip", "time", "request", "status", "size"}

var defaultParser = MustNewParser(CombinedLogPattern)

// Parser extracts LogRecords from raw lines. It is immutable and safe to share.
type Parser struct {
	re  *regexp.Regexp
	idx [5]int // submatch index per requiredGroups entry
}

// DefaultParser returns the shared parser for CombinedLogPattern.
func DefaultParser() *Parser { return defaultParser }

// NewParser compiles expr, which must define the named groups
// ip, time, request, status and size.
func NewParser(expr string) (*Parser, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("accesslog: compile grammar: %w", err)
	}
	p := &Parser{re: re}
	for i, name := range requiredGroups {
		n := re.SubexpIndex(name)
		if n < 0 {
			return nil, fmt.Errorf("accesslog: grammar is missing group %q", name)
		}
		p.idx[i] = n
	}
	return p, nil
}

// MustNewParser is like NewParser but panics on error.
func MustNewParser(expr string) *Parser {
	p, err := NewParser(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse searches line for the access-log grammar. The leftmost match wins.
func (p *Parser) Parse(line string) (model.LogRecord, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return model.LogRecord{}, false
	}
	return model.LogRecord{
		IP:      m[p.idx[0]],
		Time:    m[p.idx[1]],
		Request: m[p.idx[2]],
		Status:  m[p.idx[3]],
		Size:    m[p.idx[4]],
	}, true
}
