package sheet

import (
	"fmt"
	"strings"

	"github.com/gyeh/trialcost/internal/extract"
	"github.com/gyeh/trialcost/internal/model"
)

// LookupError reports a structural marker missing from the template.
type LookupError struct {
	Marker string
	Err    error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template lookup %s: %s", e.Marker, e.Err)
	}
	return fmt.Sprintf("template lookup %s: not found", e.Marker)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// FindDataRange locates the priced rows. Starting at the header row it takes
// the first non-empty designation as FirstRow and stops at the end marker
// (LastRow is the row above it). The grand-total row is the first row, from
// the marker on, whose designation holds both "total" and "général". When
// no total row is found LastRow is the store's last row and TotalRow is 0.
func FindDataRange(r Reader, layout Layout) (model.DataRange, error) {
	var rng model.DataRange

	last, err := r.LastRow()
	if err != nil {
		return rng, fmt.Errorf("last row: %w", err)
	}
	marker := extract.Fold(layout.EndMarker)

	for row := layout.HeaderRow; row <= last; row++ {
		d, err := r.Designation(row)
		if err != nil {
			return rng, fmt.Errorf("read designation row %d: %w", row, err)
		}
		if rng.FirstRow == 0 && d != "" {
			rng.FirstRow = row
		}
		if rng.FirstRow == 0 || !strings.Contains(extract.Fold(d), marker) {
			continue
		}

		rng.LastRow = row - 1
		for i := row; i < row+layout.TotalLookahead; i++ {
			t, err := r.Designation(i)
			if err != nil {
				return rng, fmt.Errorf("read designation row %d: %w", i, err)
			}
			t = extract.Fold(t)
			if strings.Contains(t, "total") && strings.Contains(t, "général") {
				rng.TotalRow = i
				break
			}
		}
		break
	}

	if rng.FirstRow == 0 {
		return rng, &LookupError{Marker: "data range"}
	}
	if rng.TotalRow == 0 {
		rng.LastRow = last
	}
	if rng.LastRow < rng.FirstRow {
		return rng, &LookupError{Marker: "data range", Err: fmt.Errorf("empty range %d..%d", rng.FirstRow, rng.LastRow)}
	}
	return rng, nil
}

// ReadRows snapshots the non-empty rows of rng.
func ReadRows(r Reader, rng model.DataRange) ([]model.TemplateRow, error) {
	var rows []model.TemplateRow
	for i := rng.FirstRow; i <= rng.LastRow; i++ {
		d, err := r.Designation(i)
		if err != nil {
			return nil, fmt.Errorf("read designation row %d: %w", i, err)
		}
		if d == "" {
			continue
		}
		rate, err := r.Cell(i, ColUnitRate)
		if err != nil {
			return nil, fmt.Errorf("read unit rate row %d: %w", i, err)
		}
		instr, err := r.Cell(i, ColInstructions)
		if err != nil {
			return nil, fmt.Errorf("read instructions row %d: %w", i, err)
		}
		rows = append(rows, model.TemplateRow{
			Index:           i,
			Designation:     d,
			RawUnitRate:     rate,
			RawInstructions: instr,
		})
	}
	return rows, nil
}
