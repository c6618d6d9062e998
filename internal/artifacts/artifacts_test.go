package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nateginn/ART-Performance/internal/model"
)

func TestWriterStampedPaths(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	w := NewWriter("/tmp/out", now)

	if got := w.Path("comparison_matched", "csv"); got != "/tmp/out/comparison_matched_20250601_093000.csv" {
		t.Fatalf("path = %q", got)
	}
	if w.RunID.String() == "" {
		t.Fatal("run ID missing")
	}
}

func TestWriteTableAndReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	w := NewWriter(dir, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	tbl := model.NewTable("A", "B")
	tbl.Append(model.Record{"A": "1", "B": "2"})

	csvPath, err := w.WriteTable("roster", tbl)
	if err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "A,B\n") {
		t.Fatalf("csv content = %q", data)
	}

	mdPath, err := w.WriteReport("roster_report", "# Report\n")
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if !strings.HasSuffix(mdPath, "roster_report_20250601_090000.md") {
		t.Fatalf("report path = %q", mdPath)
	}
	if _, err := os.Stat(mdPath); err != nil {
		t.Fatal(err)
	}
}

func TestWritersGetDistinctRunIDs(t *testing.T) {
	now := time.Now()
	a, b := NewWriter("x", now), NewWriter("x", now)
	if a.RunID == b.RunID {
		t.Fatal("run IDs must be unique per run")
	}
}
