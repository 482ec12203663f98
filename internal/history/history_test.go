package history_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/trialcost/internal/db"
	"github.com/gyeh/trialcost/internal/history"
	"github.com/gyeh/trialcost/internal/logging"
	"github.com/gyeh/trialcost/internal/model"
)

const (
	testPort     = 15433
	testDB       = "trialcosttest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var testDSN string

func TestMain(m *testing.M) {
	if os.Getenv("TRIALCOST_PG_TESTS") != "1" {
		fmt.Fprintln(os.Stderr, "SKIP: set TRIALCOST_PG_TESTS=1 to run the Postgres tests")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}
	os.Exit(code)
}

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "DROP SCHEMA IF EXISTS trialcost CASCADE")
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations(ctx, pool, logging.Setup("text", "warn")))
	return pool
}

func params(t *testing.T) model.StudyParameters {
	t.Helper()
	level, patients, visits, years := 2, 10, 5, 3
	p, err := model.NewStudyParameters(model.Input{
		Level:         &level,
		Patients:      &patients,
		Visits:        &visits,
		Center:        "Coordonnateur",
		DurationYears: &years,
	})
	require.NoError(t, err)
	return p
}

func summary() *model.RunSummary {
	return &model.RunSummary{
		RunID:        uuid.New(),
		TemplatePath: "/tmp/matrice.xlsm",
		TemplateHash: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		OutputPath:   "/tmp/matrice_remplie.xlsm",
		Range:        model.DataRange{FirstRow: 18, LastRow: 60},
		RowsUpdated:  2,
		GrandTotal:   3800,
		Categories:   model.CategoryCounts{Screening: 1},
		Lines:        []model.LineResult{
			{Row: 18, Designation: "Frais administratifs", Rule: "frais_administratifs", Quantity: 1, UnitRate: 1500, LineTotal: 1500, CenterTotal: 1500, FixedCost: true, Highlight: model.HighlightParameterSpecific},
			{Row: 32, Designation: "Temps TEC visite de screening patient", Rule: "tec_screening", Category: model.CategoryScreening, Quantity: 1, UnitRate: 230, LineTotal: 230, CenterTotal: 2300, Highlight: model.HighlightParameterSpecific},
		},
	}
}

func TestMigrations_Idempotent(t *testing.T) {
	pool := setupDB(t)
	require.NoError(t, db.ApplyMigrations(context.Background(), pool, logging.Setup("text", "warn")))
}

func TestRecordAndLookup(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	s := summary()

	require.NoError(t, history.Record(ctx, pool, logging.Setup("text", "warn"), s, params(t)))

	got, err := history.Lookup(ctx, pool, s.RunID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lines)
	assert.Equal(t, 2, got.RowsUpdated)
	assert.InDelta(t, s.GrandTotal, got.GrandTotal, 0.01)
	assert.InDelta(t, got.GrandTotal, got.LinesTotal, 0.01)

	var totalRow *int
	require.NoError(t, pool.QueryRow(ctx, "SELECT total_row FROM trialcost.runs WHERE run_id = $1", s.RunID).Scan(&totalRow))
	assert.Nil(t, totalRow)

	var hash string
	require.NoError(t, pool.QueryRow(ctx, "SELECT template_sha256 FROM trialcost.runs WHERE run_id = $1", s.RunID).Scan(&hash))
	assert.Equal(t, s.TemplateHash, hash)

	var category *string
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT category FROM trialcost.run_lines WHERE run_id = $1 AND row_index = 18", s.RunID).Scan(&category))
	assert.Nil(t, category)
}

func TestRecord_DuplicateRunRollsBack(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	s := summary()
	log := logging.Setup("text", "warn")

	require.NoError(t, history.Record(ctx, pool, log, s, params(t)))
	require.Error(t, history.Record(ctx, pool, log, s, params(t)))

	got, err := history.Lookup(ctx, pool, s.RunID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lines)
}

func TestLookup_Unknown(t *testing.T) {
	pool := setupDB(t)
	_, err := history.Lookup(context.Background(), pool, uuid.New())
	assert.True(t, errors.Is(err, history.ErrRunNotFound))
}
