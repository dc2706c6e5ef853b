package logsource

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Luiz-Camacho/analyze-logs/internal/model"
)

const (
	// DefaultMaxLineSize is the default maximum size (in bytes) of a single log line.
	DefaultMaxLineSize = 1024 * 1024 // 1MB

	gzipSuffix     = ".gz"
	initialBufSize = 64 * 1024
)

// ErrNoPath is returned when a file source is created without a path.
var ErrNoPath = errors.New("logsource: log path is empty")

// FileConfig holds tunable parameters for the file source.
type FileConfig struct {
	MaxLineSize int
}

// FileSource reads an access log from disk. Paths ending in ".gz" are
// decompressed transparently. Invalid UTF-8 is replaced with U+FFFD.
type FileSource struct {
	path        string
	maxLineSize int
}

// NewFileSource creates a FileSource for path. The file is not opened until Each.
func NewFileSource(path string, conf ...FileConfig) (*FileSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoPath
	}
	maxLineSize := DefaultMaxLineSize
	if len(conf) > 0 && conf[0].MaxLineSize > 0 {
		maxLineSize = conf[0].MaxLineSize
	}
	return &FileSource{path: path, maxLineSize: maxLineSize}, nil
}

func (s *FileSource) Name() string { return s.path }

// Compressed reports whether the source is read through a gzip decoder.
func (s *FileSource) Compressed() bool { return strings.HasSuffix(s.path, gzipSuffix) }

// Each opens the file and streams its lines to fn. Lines longer than the
// configured maximum are discarded up to their terminator and delivered as an
// envelope with Oversized set and an empty Line.
func (s *FileSource) Each(ctx context.Context, fn func(model.IngestEnvelope) error) error {
	rc, err := s.open()
	if err != nil {
		return err
	}
	defer rc.Close()

	split := &lineSplitter{maxLineSize: s.maxLineSize}
	scanner := bufio.NewScanner(transform.NewReader(rc, unicode.UTF8.NewDecoder()))
	// Two spare bytes so a line of exactly maxLineSize still fits with a "\r\n".
	scanner.Buffer(make([]byte, 0, min(initialBufSize, s.maxLineSize+2)), s.maxLineSize+2)
	scanner.Split(split.scan)

	lineNo, oversized := 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		env := model.IngestEnvelope{Source: s.path, LineNo: lineNo, Line: scanner.Text()}
		if split.oversized {
			split.oversized = false
			env.Oversized = true
			oversized++
		}
		if err := fn(env); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("logsource: read %s: %w", s.path, err)
	}
	if oversized > 0 {
		log.Printf("logsource: %s: skipped %d lines longer than %d bytes", s.path, oversized, s.maxLineSize)
	}
	return nil
}

func (s *FileSource) open() (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("logsource: %w", err)
	}
	if !s.Compressed() {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("logsource: gzip %s: %w", s.path, err)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return zerr
}

// lineSplitter wraps ScanUniversalLines with a length cap. Once a line
// outgrows maxLineSize its bytes are dropped until the next terminator and a
// single empty token is emitted in its place, with oversized set.
type lineSplitter struct {
	maxLineSize int
	discarding  bool
	oversized   bool
}

var oversizedToken = []byte{}

func (l *lineSplitter) scan(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if l.discarding {
		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			if atEOF {
				l.discarding, l.oversized = false, true
				return len(data), oversizedToken, nil
			}
			return len(data), nil, nil
		}
		if data[i] == '\r' && i+1 == len(data) && !atEOF {
			// Keep the '\r' until we know whether '\n' follows.
			return i, nil, nil
		}
		advance = i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance = i + 2
		}
		l.discarding, l.oversized = false, true
		return advance, oversizedToken, nil
	}

	advance, token, err = ScanUniversalLines(data, atEOF)
	if token != nil && len(token) > l.maxLineSize {
		l.oversized = true
		return advance, oversizedToken, err
	}
	if advance != 0 || token != nil || err != nil {
		return advance, token, err
	}
	// No terminator yet. A trailing '\r' is not part of the line.
	n := len(data)
	if n > 0 && data[n-1] == '\r' {
		n--
	}
	if n > l.maxLineSize {
		l.discarding = true
		return n, nil, nil
	}
	return 0, nil, nil
}

// ScanUniversalLines is a bufio.SplitFunc that ends lines at "\n", "\r\n" or a
// lone "\r". The terminator is not part of the token.
func ScanUniversalLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		// A trailing '\r' may be the first half of "\r\n".
		if !atEOF {
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
