// Package history records fill runs and their priced lines in Postgres.
package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/trialcost/internal/db"
	"github.com/gyeh/trialcost/internal/model"
	embedsql "github.com/gyeh/trialcost/internal/sql"
)

// ErrRunNotFound is returned by Lookup for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Record inserts the run summary and COPYs its lines in one transaction.
func Record(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, s *model.RunSummary, p model.StudyParameters) error {
	start := time.Now()

	var copied int64
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, embedsql.InsertRun,
			s.RunID,
			filepath.Base(s.TemplatePath),
			filepath.Base(s.OutputPath),
			int(p.Level),
			p.Patients,
			p.Visits,
			string(p.Center),
			p.DurationYears,
			p.Amendments,
			p.CRFPages,
			s.Range.FirstRow,
			s.Range.LastRow,
			s.Range.TotalRow,
			s.RowsUpdated,
			s.GrandTotal,
			s.Categories.Screening,
			s.Categories.OnsiteVisit,
			s.Categories.FinalVisit,
			s.TemplateHash,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		records := make([]*model.LineRecord, len(s.Lines))
		for i, l := range s.Lines {
			records[i] = model.NewLineRecord(s.RunID, l)
		}

		copied, err = tx.CopyFrom(ctx,
			pgx.Identifier{"trialcost", "run_lines"},
			model.LineColumns(),
			db.NewLineSource(s.RunID, records),
		)
		if err != nil {
			return fmt.Errorf("copy run lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", s.RunID.String()).
		Int64("lines", copied).
		Dur("duration", time.Since(start)).
		Msg("run recorded")
	return nil
}

// Totals is the stored view of one run.
type Totals struct {
	GrandTotal  float64
	RowsUpdated int
	Lines       int
	LinesTotal  float64
}

// Lookup returns the stored totals of a run.
func Lookup(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) (Totals, error) {
	var t Totals
	err := pool.QueryRow(ctx, embedsql.RunTotals, runID).
		Scan(&t.GrandTotal, &t.RowsUpdated, &t.Lines, &t.LinesTotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrRunNotFound
	}
	if err != nil {
		return t, fmt.Errorf("lookup run %s: %w", runID, err)
	}
	return t, nil
}
