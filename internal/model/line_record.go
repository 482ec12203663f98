package model

import (
	"fmt"

	"github.com/google/uuid"
)

// LineRecord is the flat, export-ready form of a LineResult. It doubles as
// the Parquet schema of the line report and the COPY row of the history
// table.
type LineRecord struct {
	RunID       string  `parquet:"run_id"`
	Row         int64   `parquet:"row"`
	Designation string  `parquet:"designation"`
	Rule        string  `parquet:"rule"`
	Category    *string `parquet:"category,optional"`
	Quantity    float64 `parquet:"quantity"`
	UnitRate    float64 `parquet:"unit_rate"`
	LineTotal   float64 `parquet:"line_total"`
	CenterTotal float64 `parquet:"center_total"`
	FixedCost   bool    `parquet:"fixed_cost"`
	Highlight   string  `parquet:"highlight"`
}

// NewLineRecord flattens l for run runID.
func NewLineRecord(runID uuid.UUID, l LineResult) *LineRecord {
	r := &LineRecord{
		RunID:       runID.String(),
		Row:         int64(l.Row),
		Designation: l.Designation,
		Rule:        l.Rule,
		Quantity:    l.Quantity,
		UnitRate:    l.UnitRate,
		LineTotal:   l.LineTotal,
		CenterTotal: l.CenterTotal,
		FixedCost:   l.FixedCost,
		Highlight:   string(l.Highlight),
	}
	if l.Category != CategoryNone {
		c := string(l.Category)
		r.Category = &c
	}
	return r
}

// LineColumns returns the history table column names in COPY order.
func LineColumns() []string {
	return []string{
		"run_id",
		"row_index",
		"designation",
		"rule",
		"category",
		"quantity",
		"unit_rate",
		"line_total",
		"center_total",
		"fixed_cost",
		"highlight",
	}
}

// CopyValues returns the record's values in LineColumns order.
func (r *LineRecord) CopyValues() ([]any, error) {
	id, err := uuid.Parse(r.RunID)
	if err != nil {
		return nil, fmt.Errorf("run id %q: %w", r.RunID, err)
	}
	return []any{
		id,
		r.Row,
		r.Designation,
		r.Rule,
		r.Category,
		r.Quantity,
		r.UnitRate,
		r.LineTotal,
		r.CenterTotal,
		r.FixedCost,
		r.Highlight,
	}, nil
}
