package logsource

import (
	"context"

	"github.com/Luiz-Camacho/analyze-logs/internal/model"
)

// LogSource is a re-readable stream of raw log lines.
// Every call to Each reads the source again from the beginning.
type LogSource interface {
	// Each calls fn for every line in order. It stops at the first error
	// returned by fn, a read failure, or context cancellation.
	Each(ctx context.Context, fn func(model.IngestEnvelope) error) error
	Name() string
}
