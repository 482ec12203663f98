// Package sheet defines the tabular store the pricing run reads from and
// writes to, and the template layout it relies on.
package sheet

import "github.com/gyeh/trialcost/internal/model"

// Column is a 1-based column index (A = 1).
type Column int

// Template columns.
const (
	ColDesignation     Column = 1 // A
	ColOccurrenceLimit Column = 2 // B
	ColCostType        Column = 3 // C
	ColUnitRate        Column = 4 // D
	ColItemCount       Column = 5 // E
	ColLineTotal       Column = 6 // F
	ColCenterTotal     Column = 7 // G
	ColInstructions    Column = 8 // H
)

// ComputedColumns are the columns written by a fill and reset by a clear.
var ComputedColumns = []Column{ColItemCount, ColLineTotal, ColCenterTotal}

// Ports for the template store.
type (
	Reader interface {
		// Designation returns the trimmed label of row, or "" when empty.
		Designation(row int) (string, error)
		// Cell returns the raw text of a cell, or "" when empty.
		Cell(row int, col Column) (string, error)
		// LastRow returns the last populated row.
		LastRow() (int, error)
	}

	Writer interface {
		SetCell(row int, col Column, value any) error
		// SetHighlight fills columns first..last of row with the class color.
		SetHighlight(row int, first, last Column, class model.HighlightClass) error
		// ClearCell empties a cell and removes its fill. It reports whether
		// there was anything to remove.
		ClearCell(row int, col Column) (bool, error)
	}

	Store interface {
		Reader
		Writer
	}
)

// Layout fixes where the template keeps its markers.
type Layout struct {
	SheetName string
	// HeaderRow is the first row scanned for data.
	HeaderRow int
	// EndMarker ends the data range; the row holding it is not data.
	EndMarker string
	// TotalLookahead is the number of rows, starting at the end marker,
	// searched for the grand-total row.
	TotalLookahead int
	// ClearMargin extends clearing past the last data row.
	ClearMargin int
	PatientRow  int
	PatientCol  Column
}

// DefaultLayout returns the layout of the reference template.
func DefaultLayout() Layout {
	return Layout{
		SheetName:      "Annexe 2.1+MO-autorisation24",
		HeaderRow:      18,
		EndMarker:      "TOTAL GÉNÉRAL",
		TotalLookahead: 6,
		ClearMargin:    19,
		PatientRow:     10,
		PatientCol:     ColOccurrenceLimit,
	}
}
