// Package report exports the priced lines of a run as Parquet.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/trialcost/internal/model"
)

// Records flattens the lines of s for export.
func Records(s *model.RunSummary) []model.LineRecord {
	out := make([]model.LineRecord, len(s.Lines))
	for i, l := range s.Lines {
		out[i] = *model.NewLineRecord(s.RunID, l)
	}
	return out
}

// Write exports the lines of s to path. The file appears only once it is
// complete.
func Write(path string, s *model.RunSummary) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lines-*.parquet")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (int, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}

	writer := parquet.NewGenericWriter[model.LineRecord](tmp)
	n, err := writer.Write(Records(s))
	if err != nil {
		return fail(fmt.Errorf("write parquet rows: %w", err))
	}
	if err := writer.Close(); err != nil {
		return fail(fmt.Errorf("close writer: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("rename to %s: %w", path, err)
	}
	return n, nil
}
