// Package extract pulls numbers, durations and keyed rates out of the
// free-text cells of a cost template.
//
// Every function is total: unparseable input degrades to zero, an empty
// map or the caller's default, never to an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/gyeh/trialcost/internal/model"
)

const number = `(\d+[.,]?\d*)`

var (
	anyNumber = regexp.MustCompile(`\d+[.,]?\d*`)

	levelPatterns = map[model.Level]*regexp.Regexp{
		model.Level1: regexp.MustCompile(`niveau\s*1\s*:?\s*` + number),
		model.Level2: regexp.MustCompile(`niveau\s*2\s*:?\s*` + number),
		model.Level3: regexp.MustCompile(`niveau\s*3\s*:?\s*` + number),
	}

	centerPatterns = map[model.CenterType]*regexp.Regexp{
		model.Coordinating: regexp.MustCompile(`coordonnateur\s*:?\s*` + number),
		model.Associate:    regexp.MustCompile(`associé\s*:?\s*` + number),
	}

	hourPattern   = regexp.MustCompile(number + `\s*h(?:eures?)?`)
	minutePattern = regexp.MustCompile(number + `\s*min(?:utes?)?`)
)

// Fold lowercases text, trims it and turns every Unicode space (no-break
// and narrow no-break spaces included) into an ASCII space.
func Fold(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, strings.ToLower(strings.TrimSpace(text)))
}

// MaxHour returns the largest decimal number found in text, or 0.
func MaxHour(text string) float64 {
	var maxH float64
	for _, m := range anyNumber.FindAllString(strings.ReplaceAll(text, ",", "."), -1) {
		if h := SafeFloat(m, 0); h > maxH {
			maxH = h
		}
	}
	return maxH
}

// RatesByLevel finds every "niveau N : amount" in text and keeps, per level,
// the largest amount. Levels without a match are absent from the result.
func RatesByLevel(text string) map[model.Level]float64 {
	return keyedMax(text, levelPatterns)
}

// RatesByCenter is RatesByLevel for "coordonnateur : amount" and
// "associé : amount".
func RatesByCenter(text string) map[model.CenterType]float64 {
	return keyedMax(text, centerPatterns)
}

func keyedMax[K comparable](text string, patterns map[K]*regexp.Regexp) map[K]float64 {
	out := make(map[K]float64)
	lower := Fold(text)
	for key, re := range patterns {
		matches := re.FindAllStringSubmatch(lower, -1)
		if len(matches) == 0 {
			continue
		}
		best := SafeFloat(matches[0][1], 0)
		for _, m := range matches[1:] {
			if v := SafeFloat(m[1], 0); v > best {
				best = v
			}
		}
		out[key] = best
	}
	return out
}

// TimeHours reads a duration from text: the first "<n> h" or "<n> heure(s)"
// in hours, otherwise the first "<n> min" or "<n> minute(s)" converted to
// hours, otherwise 0.
func TimeHours(text string) float64 {
	lower := Fold(text)
	if m := hourPattern.FindStringSubmatch(lower); m != nil {
		return SafeFloat(m[1], 0)
	}
	if m := minutePattern.FindStringSubmatch(lower); m != nil {
		return SafeFloat(m[1], 0) / 60.0
	}
	return 0
}

// SafeFloat parses a decimal with either separator. Blank text, text holding
// a percent sign and unparseable text all yield def. Only plain decimals and
// exponents are accepted: hex literals ("0x10"), digit separators ("1_000")
// and "inf"/"nan" yield def.
func SafeFloat(text string, def float64) float64 {
	s := strings.TrimSpace(text)
	if s == "" || strings.Contains(s, "%") {
		return def
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.IndexFunc(s, notDecimal) >= 0 {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func notDecimal(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		return false
	}
	return true
}
