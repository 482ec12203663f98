package rules

import "github.com/gyeh/trialcost/internal/extract"

// Classifier selects the rule of a row from its designation.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules, evaluated in slice order.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns a classifier over Table.
func Default() *Classifier {
	return NewClassifier(Table())
}

// Classify returns the first rule whose predicate accepts designation, or
// nil when none does. Matching is case-insensitive and treats every Unicode
// space as a plain space.
func (c *Classifier) Classify(designation string) *Rule {
	d := extract.Fold(designation)
	if d == "" {
		return nil
	}
	for i := range c.rules {
		if c.rules[i].Matches(d) {
			return &c.rules[i]
		}
	}
	return nil
}

// Rules returns the rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}
