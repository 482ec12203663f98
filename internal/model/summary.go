package model

import (
	"time"

	"github.com/google/uuid"
)

// DataRange locates the priced rows of a template. TotalRow is 0 when the
// template has no grand-total row.
type DataRange struct {
	FirstRow int
	LastRow  int
	TotalRow int
}

// RunSummary captures the outcome of a single fill run.
type RunSummary struct {
	RunID         uuid.UUID
	TemplatePath  string
	TemplateHash  string
	OutputPath    string
	Range         DataRange
	RowsUpdated   int
	GrandTotal    float64
	Categories    CategoryCounts
	Lines         []LineResult
	DurationPrice time.Duration
	DurationWrite time.Duration
	DurationTotal time.Duration
}
