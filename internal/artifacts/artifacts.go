// Package artifacts names and writes run outputs. Every file from one run
// shares a timestamp stem and a run ID so a batch of outputs can be tied
// back to the run that produced it.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nateginn/ART-Performance/internal/model"
	"github.com/nateginn/ART-Performance/internal/tabular"
)

const stampLayout = "20060102_150405"

// Writer places all outputs of one run under a data directory.
type Writer struct {
	Dir   string
	Stamp string
	RunID uuid.UUID
}

// NewWriter creates a writer stamped at now.
func NewWriter(dir string, now time.Time) *Writer {
	return &Writer{
		Dir:   dir,
		Stamp: now.Format(stampLayout),
		RunID: uuid.New(),
	}
}

// Path returns the run-stamped path for an output stem, e.g.
// comparison_matched_20250601_090000.csv.
func (w *Writer) Path(stem, ext string) string {
	return filepath.Join(w.Dir, fmt.Sprintf("%s_%s.%s", stem, w.Stamp, ext))
}

// WriteTable writes a table as a stamped CSV and returns its path.
func (w *Writer) WriteTable(stem string, t *model.Table) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	path := w.Path(stem, "csv")
	if err := tabular.WriteFile(path, t); err != nil {
		return "", err
	}
	return path, nil
}

// WriteReport writes a stamped Markdown report and returns its path.
func (w *Writer) WriteReport(stem, content string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	path := w.Path(stem, "md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}
