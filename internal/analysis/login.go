package analysis

import (
	"context"
	"log"
	"strings"

	"github.com/Luiz-Camacho/analyze-logs/internal/logsource"
	"github.com/Luiz-Camacho/analyze-logs/internal/model"
	"github.com/Luiz-Camacho/analyze-logs/internal/tally"
)

// LoginMarkers are searched for in the raw line, not in the parsed request,
// so a marker inside a referrer or user agent also counts.
var LoginMarkers = []string{"POST /login", "POST /wp-login.php"}

// LoginAttempts counts, per IP, the lines containing one of LoginMarkers.
// A matching line that does not parse contributes nothing.
func LoginAttempts(ctx context.Context, src logsource.LogSource, parser model.RecordParser) (*tally.Counter, error) {
	counts := tally.NewCounter()
	attempts := 0
	err := src.Each(ctx, func(env model.IngestEnvelope) error {
		if env.Oversized || !hasLoginMarker(env.Line) {
			return nil
		}
		rec, ok := parser.Parse(env.Line)
		if !ok {
			return nil
		}
		counts.Inc(rec.IP)
		attempts++
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("analysis: login pass over %s: %d attempts from %d IPs", src.Name(), attempts, counts.Len())
	return counts, nil
}

func hasLoginMarker(line string) bool {
	for _, marker := range LoginMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// PrincipalSuspects returns the n IPs with the most login attempts. When the
// log holds no login attempt at all it falls back to the n busiest IPs.
func PrincipalSuspects(logins, totals *tally.Counter, n int) []string {
	if logins.Len() > 0 {
		return logins.TopKeys(n)
	}
	return totals.TopKeys(n)
}
