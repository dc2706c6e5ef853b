package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	fileNamePrefix  = "report_"
	fileTimeLayout  = "2006-01-02_150405"
	defaultDirMode  = 0755
	defaultFileMode = 0644
)

// FileName returns the report file name for a generation time.
func FileName(generated time.Time) string {
	return fileNamePrefix + generated.Format(fileTimeLayout) + ".txt"
}

// Export writes text to a timestamped file in dir and returns its path.
// An empty dir means the current working directory. Nothing is retried.
func Export(text, dir string, generated time.Time) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("report: working directory: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return "", fmt.Errorf("report: create output dir: %w", err)
	}
	path := filepath.Join(dir, FileName(generated))
	if err := os.WriteFile(path, []byte(text), defaultFileMode); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	return path, nil
}

// Echo prints the report followed by the path it was exported to.
func Echo(w io.Writer, text, path string) error {
	_, err := fmt.Fprintf(w, "%s\n\nReport exported to: %s\n", text, path)
	return err
}
