// Package analysis runs the aggregation passes over an access log. Every pass
// reads the whole source again and owns the tables it returns.
package analysis

import (
	"context"
	"log"
	"strings"

	"github.com/Luiz-Camacho/analyze-logs/internal/logsource"
	"github.com/Luiz-Camacho/analyze-logs/internal/model"
	"github.com/Luiz-Camacho/analyze-logs/internal/tally"
)

// StatusTables is the output of the status pass.
type StatusTables struct {
	ByIP    *tally.Table   // ip -> status code -> count
	Totals  *tally.Counter // ip -> parsed lines
	Parsed  int
	Skipped int
}

// UniqueIPs returns the number of distinct IPs seen.
func (s StatusTables) UniqueIPs() int { return s.ByIP.Len() }

// SuspiciousTables is the output of the suspicious-endpoint pass.
type SuspiciousTables struct {
	ByIP   *tally.Table   // ip -> matched text -> count
	Totals *tally.Counter // ip -> suspicious requests
}

// StatusPerIP counts status codes per IP along with each IP's total.
func StatusPerIP(ctx context.Context, src logsource.LogSource, parser model.RecordParser) (StatusTables, error) {
	out := StatusTables{ByIP: tally.NewTable(), Totals: tally.NewCounter()}
	parsed, skipped, err := eachRecord(ctx, src, parser, "status", func(rec model.LogRecord) {
		out.ByIP.Inc(rec.IP, rec.Status)
		out.Totals.Inc(rec.IP)
	})
	out.Parsed, out.Skipped = parsed, skipped
	return out, err
}

// EndpointsPerIP counts endpoint keys (see EndpointKey) per IP.
func EndpointsPerIP(ctx context.Context, src logsource.LogSource, parser model.RecordParser) (*tally.Table, error) {
	out := tally.NewTable()
	_, _, err := eachRecord(ctx, src, parser, "endpoints", func(rec model.LogRecord) {
		out.Inc(rec.IP, EndpointKey(rec.Request))
	})
	return out, err
}

// SuspiciousPerIP counts requests that hit a sensitive path, keyed by the
// matched text.
func SuspiciousPerIP(ctx context.Context, src logsource.LogSource, parser model.RecordParser, matcher model.RequestMatcher) (SuspiciousTables, error) {
	out := SuspiciousTables{ByIP: tally.NewTable(), Totals: tally.NewCounter()}
	_, _, err := eachRecord(ctx, src, parser, "suspicious", func(rec model.LogRecord) {
		matched, ok := matcher.Match(rec.Request)
		if !ok {
			return
		}
		out.ByIP.Inc(rec.IP, matched)
		out.Totals.Inc(rec.IP)
	})
	return out, err
}

// EndpointKey reduces a request line to "METHOD PATH" with the query string
// dropped. Requests with fewer than two fields are kept as they are, and an
// empty request becomes "-".
func EndpointKey(request string) string {
	if request == "" {
		return "-"
	}
	fields := strings.Fields(request)
	if len(fields) < 2 {
		return request
	}
	path, _, _ := strings.Cut(fields[1], "?")
	return fields[0] + " " + path
}

// eachRecord parses every line of src and hands matching records to fn.
// Lines outside the grammar, and lines the source dropped for length, are
// counted and otherwise ignored.
func eachRecord(ctx context.Context, src logsource.LogSource, parser model.RecordParser, pass string, fn func(model.LogRecord)) (parsed, skipped int, err error) {
	err = src.Each(ctx, func(env model.IngestEnvelope) error {
		if env.Oversized {
			skipped++
			return nil
		}
		rec, ok := parser.Parse(env.Line)
		if !ok {
			skipped++
			return nil
		}
		parsed++
		fn(rec)
		return nil
	})
	if err != nil {
		return parsed, skipped, err
	}
	log.Printf("analysis: %s pass over %s: %d parsed, %d skipped", pass, src.Name(), parsed, skipped)
	return parsed, skipped, nil
}
