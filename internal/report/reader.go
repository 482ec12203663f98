package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/trialcost/internal/model"
)

// Reader streams LineRecord rows back from a line report.
type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[model.LineRecord]
}

// Open opens a line report and checks its schema.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	if err := ValidateSchema(pf.Schema()); err != nil {
		f.Close()
		return nil, err
	}

	r := parquet.NewGenericReader[model.LineRecord](pf)
	return &Reader{file: f, reader: r}, nil
}

// NumRows returns the number of lines in the report.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// ReadAll reads every remaining line.
func (r *Reader) ReadAll() ([]model.LineRecord, error) {
	out := make([]model.LineRecord, 0, r.reader.NumRows())
	buf := make([]model.LineRecord, 256)
	for {
		n, err := r.reader.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read parquet rows: %w", err)
		}
	}
}

// Close releases all resources.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// ValidateSchema checks that schema carries the columns of a line report.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}
	for _, col := range []string{"run_id", "row", "rule", "center_total"} {
		if !columns[col] {
			return fmt.Errorf("missing required column: %s", col)
		}
	}
	return nil
}
