// Package rules holds the ordered table of row rules and the classifier
// that maps a template designation to the first rule it matches.
package rules

import (
	"regexp"
	"strings"

	"github.com/gyeh/trialcost/internal/model"
)

// QuantityKind selects how a rule derives the row quantity.
type QuantityKind int

const (
	QtyConstant QuantityKind = iota
	QtyVisits
	QtyOnSiteVisits
	QtyDurationYears
	QtyAmendments
	QtyAmendmentHours
	QtyLevelTable
	QtyMonitoringHours
	QtyAutoQuestionnaires
	QtyNurseTask
)

// RateKind selects how a rule derives the unit rate.
type RateKind int

const (
	// RateCell reads the plain numeric value of the unit-rate cell.
	RateCell RateKind = iota
	RateLiteral
	// RateLevel looks the active level up in the unit-rate cell text and
	// falls back to the cell's numeric value.
	RateLevel
	// RateCenter is RateLevel keyed by center type.
	RateCenter
	// RateCellLiteralSwitch picks Literal when the raw cell text contains
	// SwitchText, Alternate otherwise.
	RateCellLiteralSwitch
	RateAutoQuestionnaire
	RatePatientTraining
	RateSpecialTime
)

// Quantity is the quantity policy of a rule.
type Quantity struct {
	Kind QuantityKind
	// Value is the constant for QtyConstant.
	Value float64
	// DefaultHours backs QtyAmendmentHours when no duration is written on
	// the row.
	DefaultHours float64
	// PerLevel feeds QtyLevelTable and QtyMonitoringHours. The designation
	// must name the active level ("niveau N") for the entry to apply.
	PerLevel map[model.Level]float64
	Task     model.NurseTask
}

// Rate is the unit-rate policy of a rule.
type Rate struct {
	Kind       RateKind
	Literal    float64
	Alternate  float64
	SwitchText string
}

// Rule is one line of the row table.
type Rule struct {
	Name string

	// Contains matches when any phrase is a substring of the lowercased
	// designation. Pattern, when set, must match as well.
	Contains []string
	Pattern  *regexp.Regexp
	// Excludes rejects the designation when any phrase is present.
	Excludes []string

	Quantity Quantity
	Rate     Rate

	FixedCost      bool
	LevelSpecific  bool
	CenterSpecific bool
	Category       model.Category

	// RequiresAmendments skips the row unless at least one amendment is
	// planned.
	RequiresAmendments bool
	// ExternalPersonnelPhrase, when present in the designation, skips the
	// row unless external personnel take part in the study.
	ExternalPersonnelPhrase string
}

// Matches reports whether the lowercased designation d selects r.
func (r *Rule) Matches(d string) bool {
	if len(r.Contains) > 0 {
		found := false
		for _, phrase := range r.Contains {
			if strings.Contains(d, phrase) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.Pattern != nil && !r.Pattern.MatchString(d) {
		return false
	}
	for _, phrase := range r.Excludes {
		if strings.Contains(d, phrase) {
			return false
		}
	}
	return len(r.Contains) > 0 || r.Pattern != nil
}

// Special reports whether the rule is priced by the special-time formula.
func (r *Rule) Special() bool {
	return r.Rate.Kind == RateSpecialTime
}

// Highlight returns the highlight class of rows priced by r.
func (r *Rule) Highlight() model.HighlightClass {
	if r.LevelSpecific || r.CenterSpecific || r.Special() {
		return model.HighlightParameterSpecific
	}
	return model.HighlightGeneric
}
