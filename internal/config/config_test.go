package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/trialcost/internal/model"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadParams_Valid(t *testing.T) {
	path := writeFile(t, "params.yaml", `
level: 2
patients: 12
visits: 6
center: Associé
duration_years: 3
amendments: 1
monitoring_visits: 4
crf_pages: 25
auto_questionnaires: 6
questionnaire_format: papier
external_personnel: true
nurse_tasks:
  blood_draws: 4
  pkpd_points: 10
`)

	p, err := LoadStudyParameters(path)
	require.NoError(t, err)
	assert.Equal(t, model.Level2, p.Level)
	assert.Equal(t, 12, p.Patients)
	assert.Equal(t, model.Associate, p.Center)
	assert.Equal(t, model.Paper, p.QuestionnaireFormat)
	assert.True(t, p.ExternalPersonnel)
	assert.Equal(t, 4, p.NurseTaskCount(model.BloodDraws))
	assert.Equal(t, 10, p.NurseTaskCount(model.PKPDPoints))
	assert.Equal(t, 6, p.NurseTaskCount(model.VitalSigns))
}

func TestLoadParams_MissingFieldsLeftNil(t *testing.T) {
	path := writeFile(t, "params.yaml", "level: 1\n")

	in, err := LoadParams(path)
	require.NoError(t, err)
	require.NotNil(t, in.Level)
	assert.Nil(t, in.Patients)

	_, err = model.NewStudyParameters(in)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestLoadParams_UnknownKey(t *testing.T) {
	path := writeFile(t, "params.yaml", "level: 1\npatiens: 3\n")

	_, err := LoadParams(path)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "patiens", ve.Field)
}

func TestLoadParams_NonNumericIsValidationError(t *testing.T) {
	path := writeFile(t, "params.yaml", "level: 2\npatients: dix\nvisits: 4\n")

	_, err := LoadStudyParameters(path)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "patients", ve.Field)
	assert.Contains(t, ve.Message, "line 2")
}

func TestLoadParams_NonNumericNurseTask(t *testing.T) {
	path := writeFile(t, "params.yaml", "level: 2\nnurse_tasks:\n  blood_draws: beaucoup\n")

	_, err := LoadParams(path)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "nurse_tasks.blood_draws", ve.Field)
}

func TestLoadParams_UnknownNurseTask(t *testing.T) {
	path := writeFile(t, "params.yaml", "nurse_tasks:\n  bandages: 2\n")

	_, err := LoadParams(path)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "nurse_tasks", ve.Field)
}

func TestLoadParams_MissingFile(t *testing.T) {
	_, err := LoadParams(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tpl := writeFile(t, "matrice.xlsm", "x")
	params := writeFile(t, "params.yaml", "level: 1\n")

	c := Config{TemplatePath: tpl, ParamsPath: params}
	require.NoError(t, c.Validate())
	assert.Equal(t, filepath.Join(filepath.Dir(tpl), "matrice_remplie.xlsm"), c.OutputPath)

	c = Config{TemplatePath: tpl, ParamsPath: params, OutputPath: tpl}
	assert.Error(t, c.Validate())

	c = Config{ParamsPath: params}
	assert.Error(t, c.Validate())

	c = Config{TemplatePath: tpl}
	assert.Error(t, c.Validate())

	c = Config{TemplatePath: tpl, ParamsPath: params, Workers: -1}
	assert.Error(t, c.Validate())
}

func TestValidateClear_RequiresConfirmation(t *testing.T) {
	tpl := writeFile(t, "matrice.xlsm", "x")

	c := Config{TemplatePath: tpl}
	err := c.ValidateClear()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	c.Yes = true
	assert.NoError(t, c.ValidateClear())
}

func TestValidateWithDSN(t *testing.T) {
	c := Config{}
	assert.Error(t, c.ValidateWithDSN())
	c.DSN = "postgres://localhost/trialcost"
	assert.NoError(t, c.ValidateWithDSN())
}
