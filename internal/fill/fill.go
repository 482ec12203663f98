// Package fill writes computed quantities and totals into a cost template
// and clears them again.
package fill

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/trialcost/internal/model"
	"github.com/gyeh/trialcost/internal/pricing"
	"github.com/gyeh/trialcost/internal/rules"
	"github.com/gyeh/trialcost/internal/sheet"
)

// Options tune a fill. The zero value uses the default layout, rule table
// and rate tables.
type Options struct {
	Layout      sheet.Layout
	Engine      *pricing.Engine
	StrictTotal bool
}

func (o Options) withDefaults() Options {
	if o.Layout == (sheet.Layout{}) {
		o.Layout = sheet.DefaultLayout()
	}
	if o.Engine == nil {
		o.Engine = pricing.NewEngine(rules.Default(), pricing.DefaultTables(), pricing.DefaultWorkers)
	}
	return o
}

// Fill prices every data row of store and writes the results back:
// item count, line total and center total, with the unit rate to center
// total cells highlighted by class. The patient count and the grand total
// are written with the generic highlight. Nothing is written unless every
// row priced successfully.
func Fill(ctx context.Context, store sheet.Store, p model.StudyParameters, opts Options) (*model.RunSummary, error) {
	opts = opts.withDefaults()
	layout := opts.Layout

	rng, err := locate(store, layout, opts.StrictTotal)
	if err != nil {
		return nil, err
	}

	rows, err := sheet.ReadRows(store, rng)
	if err != nil {
		return nil, err
	}

	priceStart := time.Now()
	lines, err := opts.Engine.PriceAll(ctx, rows, p)
	if err != nil {
		return nil, err
	}
	priceDur := time.Since(priceStart)

	writeStart := time.Now()
	if err := store.SetCell(layout.PatientRow, layout.PatientCol, p.Patients); err != nil {
		return nil, fmt.Errorf("write patient count: %w", err)
	}
	if err := store.SetHighlight(layout.PatientRow, layout.PatientCol, layout.PatientCol, model.HighlightGeneric); err != nil {
		return nil, fmt.Errorf("highlight patient count: %w", err)
	}

	var agg pricing.Aggregator
	var written []model.LineResult
	for _, l := range lines {
		if l == nil {
			continue
		}
		if err := writeLine(store, *l); err != nil {
			return nil, err
		}
		agg.Add(*l)
		written = append(written, *l)
	}

	if rng.TotalRow > 0 {
		if err := store.SetCell(rng.TotalRow, sheet.ColCenterTotal, agg.GrandTotal()); err != nil {
			return nil, fmt.Errorf("write grand total: %w", err)
		}
		if err := store.SetHighlight(rng.TotalRow, sheet.ColCenterTotal, sheet.ColCenterTotal, model.HighlightGeneric); err != nil {
			return nil, fmt.Errorf("highlight grand total: %w", err)
		}
	}

	return &model.RunSummary{
		RunID:         uuid.New(),
		Range:         rng,
		RowsUpdated:   agg.Rows(),
		GrandTotal:    agg.GrandTotal(),
		Categories:    agg.Counts(),
		Lines:         written,
		DurationPrice: priceDur,
		DurationWrite: time.Since(writeStart),
	}, nil
}

func writeLine(store sheet.Writer, l model.LineResult) error {
	cells := []struct {
		col sheet.Column
		v   float64
	}{
		{sheet.ColItemCount, l.Quantity},
		{sheet.ColLineTotal, l.LineTotal},
		{sheet.ColCenterTotal, l.CenterTotal},
	}
	for _, c := range cells {
		if err := store.SetCell(l.Row, c.col, c.v); err != nil {
			return fmt.Errorf("write row %d: %w", l.Row, err)
		}
	}
	if err := store.SetHighlight(l.Row, sheet.ColUnitRate, sheet.ColCenterTotal, l.Highlight); err != nil {
		return fmt.Errorf("highlight row %d: %w", l.Row, err)
	}
	return nil
}

func locate(store sheet.Reader, layout sheet.Layout, strict bool) (model.DataRange, error) {
	rng, err := sheet.FindDataRange(store, layout)
	if err != nil {
		return rng, err
	}
	if strict && rng.TotalRow == 0 {
		return rng, &sheet.LookupError{Marker: "grand total row"}
	}
	return rng, nil
}

// Clear empties the computed columns from the first data row to
// layout.ClearMargin rows past the last one, the grand-total cell and the
// patient count, removing their fills too. It returns the number of cells
// that held a value or a fill; clearing a cleared template returns 0.
func Clear(store sheet.Store, layout sheet.Layout) (int, error) {
	rng, err := sheet.FindDataRange(store, layout)
	if err != nil {
		return 0, err
	}

	count := 0
	reset := func(row int, col sheet.Column) error {
		ok, err := store.ClearCell(row, col)
		if err != nil {
			return fmt.Errorf("clear row %d: %w", row, err)
		}
		if ok {
			count++
		}
		return nil
	}

	for row := rng.FirstRow; row <= rng.LastRow+layout.ClearMargin; row++ {
		for _, col := range sheet.ComputedColumns {
			if err := reset(row, col); err != nil {
				return count, err
			}
		}
	}
	if rng.TotalRow > 0 {
		if err := reset(rng.TotalRow, sheet.ColCenterTotal); err != nil {
			return count, err
		}
	}
	if err := reset(layout.PatientRow, layout.PatientCol); err != nil {
		return count, err
	}
	return count, nil
}

// PlanRow is the dry-run outcome of one data row.
type PlanRow struct {
	Row         int
	Designation string
	Rule        string // "" when no rule matches
	Line        *model.LineResult
}

// Plan prices store without writing to it. Rows that match a rule but
// yield no line (a guard rejected them) carry the rule name and a nil Line.
func Plan(ctx context.Context, store sheet.Reader, p model.StudyParameters, opts Options) ([]PlanRow, model.DataRange, error) {
	opts = opts.withDefaults()

	rng, err := locate(store, opts.Layout, opts.StrictTotal)
	if err != nil {
		return nil, rng, err
	}
	rows, err := sheet.ReadRows(store, rng)
	if err != nil {
		return nil, rng, err
	}
	lines, err := opts.Engine.PriceAll(ctx, rows, p)
	if err != nil {
		return nil, rng, err
	}

	out := make([]PlanRow, len(rows))
	for i, r := range rows {
		out[i] = PlanRow{Row: r.Index, Designation: r.Designation, Line: lines[i]}
		if rule := opts.Engine.Classifier().Classify(r.Designation); rule != nil {
			out[i].Rule = rule.Name
		}
	}
	return out, rng, nil
}
