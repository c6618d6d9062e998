// Package tabular reads and writes the ledger extracts the pipeline consumes
// and produces. CSV is the interchange format for every stage; the
// de-identified extract can additionally be exported as Parquet for analysts.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/nateginn/ART-Performance/internal/model"
)

// ReadFile loads a CSV extract into a Table. The first record is the header;
// short rows are padded with empty strings, long rows rejected.
func ReadFile(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV from r into a Table.
func Read(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read csv: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	t := model.NewTable(header...)
	rowNum := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNum+1, err)
		}
		rowNum++
		if len(fields) > len(header) {
			return nil, fmt.Errorf("read csv row %d: %d fields, header has %d", rowNum, len(fields), len(header))
		}
		rec := make(model.Record, len(header))
		for i, col := range header {
			if i < len(fields) {
				rec[col] = fields[i]
			} else {
				rec[col] = ""
			}
		}
		t.Append(rec)
	}
	return t, nil
}

// WriteFile writes a Table to path as CSV in column order.
func WriteFile(path string, t *model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()
	if err := Write(f, t); err != nil {
		return err
	}
	return f.Close()
}

// Write emits the table as CSV to w.
func Write(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	fields := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			fields[i] = row[col]
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
