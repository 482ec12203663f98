package template

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gyeh/trialcost/internal/rules"
	"github.com/gyeh/trialcost/internal/sheet"
)

func TestSampleRowsClassify(t *testing.T) {
	c := rules.Default()
	seen := make(map[string]bool)
	for _, r := range SampleRows() {
		rule := c.Classify(r.Designation)
		if r.Designation == "Examen d'imagerie" {
			assert.Nil(t, rule)
			continue
		}
		require.NotNil(t, rule, "no rule for %q", r.Designation)
		seen[rule.Name] = true
	}
	// Every rule but the shadowed patient-training one has a row.
	for _, r := range c.Rules() {
		if r.Name == "tec_formation_patient_auto_questionnaire" {
			continue
		}
		assert.True(t, seen[r.Name], "rule %s has no sample row", r.Name)
	}
}

func TestBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.xlsx")
	layout := sheet.DefaultLayout()

	rng, err := Build(path, layout, SampleRows()[:3])
	require.NoError(t, err)
	assert.Equal(t, 18, rng.FirstRow)
	assert.Equal(t, 21, rng.LastRow)
	assert.Equal(t, 22, rng.TotalRow)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(layout.SheetName, "A22")
	require.NoError(t, err)
	assert.Equal(t, layout.EndMarker, v)
	v, err = f.GetCellValue(layout.SheetName, "D19")
	require.NoError(t, err)
	assert.Contains(t, v, "Associé : 300")
	v, err = f.GetCellValue(layout.SheetName, "H17")
	require.NoError(t, err)
	assert.Equal(t, "Consignes", v)
}

func TestBuild_RejectsHeaderRow(t *testing.T) {
	layout := sheet.DefaultLayout()
	layout.HeaderRow = 1
	_, err := Build(filepath.Join(t.TempDir(), "t.xlsx"), layout, SampleRows())
	assert.Error(t, err)
}
