package pricing

import "github.com/gyeh/trialcost/internal/model"

// Aggregator accumulates the priced lines of one run.
type Aggregator struct {
	total  float64
	rows   int
	counts model.CategoryCounts
}

// Add folds l into the running totals.
func (a *Aggregator) Add(l model.LineResult) {
	a.total += l.CenterTotal
	a.rows++
	a.counts.Inc(l.Category)
}

// GrandTotal is the sum of the center totals added so far.
func (a *Aggregator) GrandTotal() float64 {
	return a.total
}

// Rows is the number of lines added.
func (a *Aggregator) Rows() int {
	return a.rows
}

// Counts returns the per-category tallies.
func (a *Aggregator) Counts() model.CategoryCounts {
	return a.counts
}
