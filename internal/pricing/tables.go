package pricing

import (
	"fmt"
	"math"

	"github.com/gyeh/trialcost/internal/model"
)

// Tables holds the fixed lookup values of the special-time formula and the
// count-threshold rates. A Tables value is read-only once built.
type Tables struct {
	// BaseHours is the technician time per visit, by category and level.
	BaseHours map[model.Category]map[model.Level]float64
	// HourlyCost is the cost of one technician hour, by category and level.
	HourlyCost map[model.Category]map[model.Level]float64
	// PagesPerIncrement is the CRF page count that adds one
	// IncrementHours of technician time, by level.
	PagesPerIncrement map[model.Level]int
	IncrementHours    float64

	// CountThreshold switches the auto-questionnaire rates to their upper
	// tier when the questionnaire count exceeds it.
	CountThreshold int

	AutoQuestionnaireHigh float64
	AutoQuestionnaireLow  float64
	// PatientTraining is indexed by [aboveThreshold][format].
	PatientTraining map[bool]map[model.QuestionnaireFormat]float64
}

// DefaultTables returns the rates of the reference template.
func DefaultTables() Tables {
	return Tables{
		BaseHours: map[model.Category]map[model.Level]float64{
			model.CategoryScreening:   {model.Level1: 1.0, model.Level2: 2.0, model.Level3: 3.0},
			model.CategoryOnsiteVisit: {model.Level1: 1.0, model.Level2: 2.0, model.Level3: 2.0},
			model.CategoryFinalVisit:  {model.Level1: 1.0, model.Level2: 2.0, model.Level3: 2.0},
		},
		HourlyCost: map[model.Category]map[model.Level]float64{
			model.CategoryScreening:   {model.Level1: 57.5, model.Level2: 115.0, model.Level3: 172.5},
			model.CategoryOnsiteVisit: {model.Level1: 57.5, model.Level2: 115.0, model.Level3: 115.0},
			model.CategoryFinalVisit:  {model.Level1: 57.5, model.Level2: 115.0, model.Level3: 115.0},
		},
		PagesPerIncrement: map[model.Level]int{model.Level1: 10, model.Level2: 5, model.Level3: 5},
		IncrementHours:    0.25,

		CountThreshold:        5,
		AutoQuestionnaireHigh: 28.75,
		AutoQuestionnaireLow:  14.37,
		PatientTraining: map[bool]map[model.QuestionnaireFormat]float64{
			true:  {model.Electronic: 86.25, model.Paper: 43.12},
			false: {model.Electronic: 57.5, model.Paper: 28.75},
		},
	}
}

// AdditionalTime is the extra technician time per visit caused by a long
// case report form.
func (t Tables) AdditionalTime(level model.Level, pages int) float64 {
	per, ok := t.PagesPerIncrement[level]
	if !ok || per <= 0 || pages <= 0 {
		return 0
	}
	return math.Floor(float64(pages)/float64(per)) * t.IncrementHours
}

// SpecialTimeRate is (base time + additional time) x hourly cost for the
// category at the given level.
func (t Tables) SpecialTimeRate(cat model.Category, level model.Level, pages int) (float64, error) {
	base, ok := t.BaseHours[cat][level]
	if !ok {
		return 0, fmt.Errorf("no base time for %s at level %s", cat, level)
	}
	hourly, ok := t.HourlyCost[cat][level]
	if !ok {
		return 0, fmt.Errorf("no hourly cost for %s at level %s", cat, level)
	}
	return (base + t.AdditionalTime(level, pages)) * hourly, nil
}

// AutoQuestionnaireRate prices the handling of one self-questionnaire.
func (t Tables) AutoQuestionnaireRate(count int) float64 {
	if count > t.CountThreshold {
		return t.AutoQuestionnaireHigh
	}
	return t.AutoQuestionnaireLow
}

// PatientTrainingRate prices the initial patient training on
// self-questionnaires.
func (t Tables) PatientTrainingRate(count int, format model.QuestionnaireFormat) float64 {
	return t.PatientTraining[count > t.CountThreshold][format]
}
