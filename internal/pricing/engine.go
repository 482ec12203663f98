// Package pricing turns a classified template row into a priced line and
// aggregates the lines of a run.
package pricing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gyeh/trialcost/internal/extract"
	"github.com/gyeh/trialcost/internal/model"
	"github.com/gyeh/trialcost/internal/rules"
)

// DefaultWorkers bounds the number of rows priced concurrently.
const DefaultWorkers = 4

// Engine prices template rows against a rule table and rate tables.
type Engine struct {
	classifier *rules.Classifier
	tables     Tables
	workers    int
}

// NewEngine creates an Engine. workers <= 0 selects DefaultWorkers.
func NewEngine(classifier *rules.Classifier, tables Tables, workers int) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{classifier: classifier, tables: tables, workers: workers}
}

// Classifier returns the engine's classifier.
func (e *Engine) Classifier() *rules.Classifier {
	return e.classifier
}

// Price computes the line of row. It returns nil, nil when the row matches
// no rule, when a rule guard rejects it, or when no quantity applies.
func (e *Engine) Price(row model.TemplateRow, p model.StudyParameters) (line *model.LineResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			line = nil
			err = &ComputationError{Row: row.Index, Designation: row.Designation, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	rule := e.classifier.Classify(row.Designation)
	if rule == nil {
		return nil, nil
	}
	d := extract.Fold(row.Designation)

	qty, ok := quantity(rule, row, d, p)
	if !ok || qty < 0 {
		return nil, nil
	}

	rate, err := e.unitRate(rule, row, p)
	if err != nil {
		return nil, &ComputationError{Row: row.Index, Designation: row.Designation, Err: err}
	}

	lineTotal := qty * rate
	centerTotal := lineTotal
	if !rule.FixedCost {
		centerTotal = lineTotal * float64(p.Patients)
	}

	for _, v := range []float64{qty, rate, lineTotal, centerTotal} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ComputationError{
				Row:         row.Index,
				Designation: row.Designation,
				Err:         fmt.Errorf("non-finite amount (quantity=%v, unit rate=%v)", qty, rate),
			}
		}
	}

	return &model.LineResult{
		Row:         row.Index,
		Designation: row.Designation,
		Rule:        rule.Name,
		Category:    rule.Category,
		Quantity:    qty,
		UnitRate:    rate,
		LineTotal:   lineTotal,
		CenterTotal: centerTotal,
		FixedCost:   rule.FixedCost,
		Highlight:   rule.Highlight(),
	}, nil
}

// PriceAll prices rows concurrently and returns one entry per row, in
// order; unpriced rows are nil. The first failure cancels the batch.
func (e *Engine) PriceAll(ctx context.Context, rows []model.TemplateRow, p model.StudyParameters) ([]*model.LineResult, error) {
	out := make([]*model.LineResult, len(rows))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			line, err := e.Price(rows[i], p)
			if err != nil {
				return err
			}
			out[i] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func quantity(r *rules.Rule, row model.TemplateRow, d string, p model.StudyParameters) (float64, bool) {
	if r.RequiresAmendments && p.Amendments <= 0 {
		return 0, false
	}
	if r.ExternalPersonnelPhrase != "" && strings.Contains(d, r.ExternalPersonnelPhrase) && !p.ExternalPersonnel {
		return 0, false
	}

	q := r.Quantity
	switch q.Kind {
	case rules.QtyConstant:
		return q.Value, true
	case rules.QtyVisits:
		return float64(p.Visits), true
	case rules.QtyOnSiteVisits:
		return float64(p.OnSiteVisits()), true
	case rules.QtyDurationYears:
		return float64(p.DurationYears), true
	case rules.QtyAmendments:
		return float64(p.Amendments), true
	case rules.QtyAmendmentHours:
		hours := extract.TimeHours(row.Designation)
		if hours == 0 {
			hours = extract.TimeHours(row.RawInstructions)
		}
		if hours == 0 {
			hours = q.DefaultHours
		}
		return float64(p.Amendments) * hours, true
	case rules.QtyLevelTable:
		v, ok := levelEntry(q, d, p.Level)
		return v, ok
	case rules.QtyMonitoringHours:
		hours, ok := levelEntry(q, d, p.Level)
		if !ok || hours <= 0 {
			return 0, false
		}
		return float64(p.MonitoringVisits) * hours, true
	case rules.QtyAutoQuestionnaires:
		return float64(p.AutoQuestionnaires), true
	case rules.QtyNurseTask:
		return float64(p.NurseTaskCount(q.Task)), true
	}
	return 0, false
}

// levelEntry returns the per-level value only when the designation names
// the active level.
func levelEntry(q rules.Quantity, d string, level model.Level) (float64, bool) {
	if !strings.Contains(d, "niveau "+level.String()) {
		return 0, false
	}
	v, ok := q.PerLevel[level]
	return v, ok
}

func (e *Engine) unitRate(r *rules.Rule, row model.TemplateRow, p model.StudyParameters) (float64, error) {
	raw := row.RawUnitRate
	switch r.Rate.Kind {
	case rules.RateCell:
		return extract.SafeFloat(raw, 0), nil
	case rules.RateLiteral:
		return r.Rate.Literal, nil
	case rules.RateLevel:
		if v, ok := extract.RatesByLevel(raw)[p.Level]; ok {
			return v, nil
		}
		return extract.SafeFloat(raw, 0), nil
	case rules.RateCenter:
		if v, ok := extract.RatesByCenter(raw)[p.Center]; ok {
			return v, nil
		}
		return extract.SafeFloat(raw, 0), nil
	case rules.RateCellLiteralSwitch:
		if strings.Contains(raw, r.Rate.SwitchText) {
			return r.Rate.Literal, nil
		}
		return r.Rate.Alternate, nil
	case rules.RateAutoQuestionnaire:
		return e.tables.AutoQuestionnaireRate(p.AutoQuestionnaires), nil
	case rules.RatePatientTraining:
		return e.tables.PatientTrainingRate(p.AutoQuestionnaires, p.QuestionnaireFormat), nil
	case rules.RateSpecialTime:
		return e.tables.SpecialTimeRate(r.Category, p.Level, p.CRFPages)
	}
	return 0, fmt.Errorf("rule %s: unknown rate kind %d", r.Name, r.Rate.Kind)
}
