package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gyeh/trialcost/internal/model"
)

func TestMaxHour(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"Coordonnateur : 2,5 h ; Associé 3h", 3.0},
		{"1.25 puis 0,75", 1.25},
		{"pas de chiffre", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, MaxHour(tt.text), 1e-9, "MaxHour(%q)", tt.text)
	}
}

func TestRatesByLevel(t *testing.T) {
	got := RatesByLevel("niveau 1: 100, niveau 2 : 200,5")
	assert.Equal(t, map[model.Level]float64{model.Level1: 100.0, model.Level2: 200.5}, got)
}

func TestRatesByLevel_KeepsMaximumPerLevel(t *testing.T) {
	got := RatesByLevel("Niveau 3 : 40 (base) ; NIVEAU 3: 55,5 (majoré)")
	assert.Equal(t, map[model.Level]float64{model.Level3: 55.5}, got)
}

func TestRatesByLevel_NoMatch(t *testing.T) {
	assert.Empty(t, RatesByLevel("1 200 €"))
	assert.Empty(t, RatesByLevel(""))
}

func TestRatesByCenter(t *testing.T) {
	got := RatesByCenter("Coordonnateur : 1 500 ; ASSOCIÉ : 750,25")
	assert.Equal(t, map[model.CenterType]float64{
		model.Coordinating: 1.0,
		model.Associate:    750.25,
	}, got)

	got = RatesByCenter("coordonnateur: 1500 / associé 800")
	assert.Equal(t, 1500.0, got[model.Coordinating])
	assert.Equal(t, 800.0, got[model.Associate])
}

func TestTimeHours(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"Prise de connaissance (2 h)", 2},
		{"durée : 1,5 heures", 1.5},
		{"30 minutes par avenant", 0.5},
		{"45 min", 0.75},
		{"2h puis 30 min", 2},
		{"aucune durée", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, TimeHours(tt.text), 1e-9, "TimeHours(%q)", tt.text)
	}
}

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		text string
		def  float64
		want float64
	}{
		{"57,50", 0, 57.5},
		{" 13.00 ", 0, 13},
		{"100,", 0, 100},
		{"15%", -1, -1},
		{"   ", 7, 7},
		{"voir consignes", 3, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeFloat(tt.text, tt.def), "SafeFloat(%q)", tt.text)
	}
}

func TestSafeFloat_PlainDecimalsOnly(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"0x10", -1},
		{"1_000", -1},
		{"inf", -1},
		{"NaN", -1},
		{"1e3", 1000},
		{"-2,5", -2.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeFloat(tt.text, -1), "SafeFloat(%q)", tt.text)
	}
}

func TestUnicodeSpaces(t *testing.T) {
	const nbsp, nnbsp = "\u00a0", "\u202f"

	assert.Equal(t, map[model.Level]float64{model.Level2: 800},
		RatesByLevel("Niveau"+nbsp+"2"+nbsp+": 800"))
	assert.Equal(t, map[model.Level]float64{model.Level1: 30, model.Level3: 90},
		RatesByLevel("niveau 1"+nnbsp+":"+nnbsp+"30 ; niveau"+nnbsp+"3 : 90"))

	assert.Equal(t, map[model.CenterType]float64{model.Associate: 750},
		RatesByCenter("Associé"+nbsp+": 750"))
	assert.Equal(t, 1500.0, RatesByCenter("Coordonnateur"+nnbsp+":"+nbsp+"1500")[model.Coordinating])

	assert.InDelta(t, 0.5, TimeHours("30"+nbsp+"min"), 1e-9)
	assert.InDelta(t, 0.25, TimeHours("15"+nnbsp+"minutes"), 1e-9)
	assert.InDelta(t, 1.5, TimeHours("1,5"+nbsp+"heures"), 1e-9)
	assert.InDelta(t, 2.0, TimeHours("2"+nnbsp+"h"), 1e-9)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "temps tec : visite", Fold("  Temps\u00a0TEC\u202f: Visite "))
	assert.Empty(t, Fold("\u00a0"))
}
