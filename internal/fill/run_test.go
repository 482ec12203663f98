package fill_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/trialcost/internal/config"
	"github.com/gyeh/trialcost/internal/fill"
	"github.com/gyeh/trialcost/internal/model"
	"github.com/gyeh/trialcost/internal/report"
	"github.com/gyeh/trialcost/internal/sheet"
	"github.com/gyeh/trialcost/internal/sheet/xlsx"
	"github.com/gyeh/trialcost/internal/template"
)

const paramsYAML = `
level: 2
patients: 10
visits: 5
center: Associé
duration_years: 3
amendments: 2
monitoring_visits: 4
crf_pages: 20
auto_questionnaires: 6
questionnaire_format: papier
external_personnel: true
`

type fixture struct {
	dir    string
	cfg    *config.Config
	rng    model.DataRange
	layout sheet.Layout
}

func newFixture(t *testing.T, params string) *fixture {
	t.Helper()
	dir := t.TempDir()
	layout := sheet.DefaultLayout()

	tpl := filepath.Join(dir, "matrice.xlsx")
	rng, err := template.Build(tpl, layout, template.SampleRows())
	require.NoError(t, err)

	paramsPath := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(paramsPath, []byte(params), 0644))

	return &fixture{
		dir:    dir,
		layout: layout,
		rng:    rng,
		cfg: &config.Config{
			TemplatePath: tpl,
			ParamsPath:   paramsPath,
			ReportPath:   filepath.Join(dir, "lines.parquet"),
		},
	}
}

func cellFloat(t *testing.T, wb *xlsx.Workbook, row int, col sheet.Column) float64 {
	t.Helper()
	v, err := wb.Cell(row, col)
	require.NoError(t, err)
	f, err := strconv.ParseFloat(v, 64)
	require.NoError(t, err, "cell (%d, %d) = %q", row, col, v)
	return f
}

func TestRun(t *testing.T) {
	fx := newFixture(t, paramsYAML)

	summary, err := fill.Run(context.Background(), zerolog.Nop(), fx.cfg)
	require.NoError(t, err)

	assert.Equal(t, fx.rng, summary.Range)
	assert.Equal(t, 28, summary.RowsUpdated)
	assert.Equal(t, model.CategoryCounts{Screening: 1, OnsiteVisit: 1, FinalVisit: 1}, summary.Categories)
	assert.Equal(t, filepath.Join(fx.dir, "matrice_remplie.xlsx"), summary.OutputPath)
	assert.Len(t, summary.TemplateHash, 64)

	wb, err := xlsx.Open(summary.OutputPath, fx.layout.SheetName)
	require.NoError(t, err)
	defer wb.Close()

	assert.InDelta(t, 10.0, cellFloat(t, wb, fx.layout.PatientRow, fx.layout.PatientCol), 1e-9)
	assert.InDelta(t, summary.GrandTotal, cellFloat(t, wb, fx.rng.TotalRow, sheet.ColCenterTotal), 0.01)

	// Associate-center administrative fee, parameter-specific fill.
	first := fx.rng.FirstRow
	assert.InDelta(t, 1000.0, cellFloat(t, wb, first, sheet.ColCenterTotal), 1e-9)
	fillColor, err := wb.Fill(first, sheet.ColUnitRate)
	require.NoError(t, err)
	assert.Equal(t, "FFC7CE", fillColor)

	// IVRS call: literal rate per visit, generic fill.
	ivrs := first + 21
	assert.InDelta(t, 5*11.24*10, cellFloat(t, wb, ivrs, sheet.ColCenterTotal), 1e-6)
	fillColor, err = wb.Fill(ivrs, sheet.ColCenterTotal)
	require.NoError(t, err)
	assert.Equal(t, "ADD8E6", fillColor)

	// The imaging row matches no rule and stays empty.
	v, err := wb.Cell(first+23, sheet.ColCenterTotal)
	require.NoError(t, err)
	assert.Empty(t, v)

	// The template itself is not modified.
	tpl, err := xlsx.Open(fx.cfg.TemplatePath, fx.layout.SheetName)
	require.NoError(t, err)
	defer tpl.Close()
	v, err = tpl.Cell(first, sheet.ColCenterTotal)
	require.NoError(t, err)
	assert.Empty(t, v)

	r, err := report.Open(fx.cfg.ReportPath)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, int64(28), r.NumRows())
}

func TestRun_ValidationFailure(t *testing.T) {
	fx := newFixture(t, "level: 2\npatients: 10\nvisits: 1\ncenter: Associé\nduration_years: 3\n")

	_, err := fill.Run(context.Background(), zerolog.Nop(), fx.cfg)
	var pe *fill.PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, fill.PhaseValidate, pe.Phase)

	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "at least 2")

	_, statErr := os.Stat(config.DefaultOutputPath(fx.cfg.TemplatePath))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_MissingSheet(t *testing.T) {
	fx := newFixture(t, paramsYAML)
	fx.cfg.SheetName = "Feuil1"

	_, err := fill.Run(context.Background(), zerolog.Nop(), fx.cfg)
	var pe *fill.PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, fill.PhaseOpen, pe.Phase)
	var le *sheet.LookupError
	assert.True(t, errors.As(err, &le))
}

func TestRun_HistoryFailureIsNotFatal(t *testing.T) {
	fx := newFixture(t, paramsYAML)
	fx.cfg.DSN = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"

	summary, err := fill.Run(context.Background(), zerolog.Nop(), fx.cfg)
	require.NoError(t, err)
	_, err = os.Stat(summary.OutputPath)
	assert.NoError(t, err)
}

func TestRunClear(t *testing.T) {
	fx := newFixture(t, paramsYAML)
	summary, err := fill.Run(context.Background(), zerolog.Nop(), fx.cfg)
	require.NoError(t, err)

	clearCfg := &config.Config{TemplatePath: summary.OutputPath}
	_, err = fill.RunClear(context.Background(), zerolog.Nop(), clearCfg)
	var pe *fill.PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, fill.PhaseValidate, pe.Phase)

	clearCfg.Yes = true
	n, err := fill.RunClear(context.Background(), zerolog.Nop(), clearCfg)
	require.NoError(t, err)
	// Three cells per written row, the grand total and the patient count.
	assert.Equal(t, 3*summary.RowsUpdated+2, n)

	n, err = fill.RunClear(context.Background(), zerolog.Nop(), clearCfg)
	require.NoError(t, err)
	assert.Zero(t, n)

	wb, err := xlsx.Open(summary.OutputPath, fx.layout.SheetName)
	require.NoError(t, err)
	defer wb.Close()
	v, err := wb.Cell(fx.rng.TotalRow, sheet.ColCenterTotal)
	require.NoError(t, err)
	assert.Empty(t, v)
	fillColor, err := wb.Fill(fx.rng.FirstRow, sheet.ColCenterTotal)
	require.NoError(t, err)
	assert.Empty(t, fillColor)
}

func TestRunPlan(t *testing.T) {
	fx := newFixture(t, paramsYAML)

	rows, rng, err := fill.RunPlan(context.Background(), zerolog.Nop(), fx.cfg)
	require.NoError(t, err)
	assert.Equal(t, fx.rng, rng)
	assert.Len(t, rows, len(template.SampleRows()))

	priced := 0
	for _, r := range rows {
		if r.Line != nil {
			priced++
		}
	}
	assert.Equal(t, 28, priced)
}
