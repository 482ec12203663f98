package fill

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/trialcost/internal/config"
	"github.com/gyeh/trialcost/internal/db"
	"github.com/gyeh/trialcost/internal/history"
	"github.com/gyeh/trialcost/internal/model"
	"github.com/gyeh/trialcost/internal/pricing"
	"github.com/gyeh/trialcost/internal/report"
	"github.com/gyeh/trialcost/internal/rules"
	"github.com/gyeh/trialcost/internal/sheet"
	"github.com/gyeh/trialcost/internal/sheet/xlsx"
)

// Pipeline phases.
const (
	PhaseValidate = "validate"
	PhaseOpen     = "open"
	PhaseFill     = "fill"
	PhaseClear    = "clear"
	PhaseReport   = "report"
	PhaseSave     = "save"
	PhaseHistory  = "history"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func layoutFor(cfg *config.Config) sheet.Layout {
	layout := sheet.DefaultLayout()
	if cfg.SheetName != "" {
		layout.SheetName = cfg.SheetName
	}
	return layout
}

// Run executes a full fill: validate → open → fill → report → save →
// history. The output workbook is written only when every row priced; a
// history failure is logged and does not fail the run.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()

	// Phase 1: Validate
	if err := cfg.Validate(); err != nil {
		return nil, &PipelineError{Phase: PhaseValidate, Err: err}
	}
	params, err := config.LoadStudyParameters(cfg.ParamsPath)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseValidate, Err: err}
	}
	log.Info().
		Int("level", int(params.Level)).
		Int("patients", params.Patients).
		Int("visits", params.Visits).
		Str("center", string(params.Center)).
		Msg("study parameters validated")

	templateHash, err := fileHash(cfg.TemplatePath)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseValidate, Err: err}
	}

	// Phase 2: Open
	layout := layoutFor(cfg)
	wb, err := xlsx.Open(cfg.TemplatePath, layout.SheetName)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseOpen, Err: err}
	}
	defer wb.Close()

	// Phase 3: Fill
	engine := pricing.NewEngine(rules.Default(), pricing.DefaultTables(), cfg.Workers)
	summary, err := Fill(ctx, wb, params, Options{Layout: layout, Engine: engine, StrictTotal: cfg.StrictTotal})
	if err != nil {
		return nil, &PipelineError{Phase: PhaseFill, Err: err}
	}
	summary.TemplatePath = cfg.TemplatePath
	summary.TemplateHash = templateHash
	summary.OutputPath = cfg.OutputPath
	if summary.Range.TotalRow == 0 {
		log.Warn().Int("last_row", summary.Range.LastRow).Msg("no grand-total row found; grand total not written")
	}
	log.Info().
		Str("run_id", summary.RunID.String()).
		Int("first_row", summary.Range.FirstRow).
		Int("last_row", summary.Range.LastRow).
		Int("rows_updated", summary.RowsUpdated).
		Dur("price_duration", summary.DurationPrice).
		Msg("rows priced and written")

	// Phase 4: Report
	if cfg.ReportPath != "" {
		n, err := report.Write(cfg.ReportPath, summary)
		if err != nil {
			return nil, &PipelineError{Phase: PhaseReport, Err: err}
		}
		log.Info().Str("path", cfg.ReportPath).Int("lines", n).Msg("line report written")
	}

	// Phase 5: Save
	if err := wb.SaveAs(cfg.OutputPath); err != nil {
		return nil, &PipelineError{Phase: PhaseSave, Err: err}
	}

	// Phase 6: History (non-fatal)
	if cfg.DSN != "" {
		if err := recordHistory(ctx, log, cfg.DSN, summary, params); err != nil {
			log.Warn().Err(&PipelineError{Phase: PhaseHistory, Err: err}).Msg("run history not recorded (non-fatal)")
		}
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Str("output", cfg.OutputPath).
		Int("rows_updated", summary.RowsUpdated).
		Float64("grand_total", summary.GrandTotal).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("fill complete")

	return summary, nil
}

func recordHistory(ctx context.Context, log zerolog.Logger, dsn string, s *model.RunSummary, p model.StudyParameters) error {
	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	return history.Record(ctx, pool, log, s, p)
}

// RunClear clears a workbook in place: validate → open → clear → save.
func RunClear(ctx context.Context, log zerolog.Logger, cfg *config.Config) (int, error) {
	if err := cfg.ValidateClear(); err != nil {
		return 0, &PipelineError{Phase: PhaseValidate, Err: err}
	}

	layout := layoutFor(cfg)
	wb, err := xlsx.Open(cfg.TemplatePath, layout.SheetName)
	if err != nil {
		return 0, &PipelineError{Phase: PhaseOpen, Err: err}
	}
	defer wb.Close()

	n, err := Clear(wb, layout)
	if err != nil {
		return 0, &PipelineError{Phase: PhaseClear, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return 0, &PipelineError{Phase: PhaseSave, Err: err}
	}
	if err := wb.SaveAs(cfg.TemplatePath); err != nil {
		return 0, &PipelineError{Phase: PhaseSave, Err: err}
	}

	log.Info().Str("file", cfg.TemplatePath).Int("cells_cleared", n).Msg("clear complete")
	return n, nil
}

// RunPlan opens the template read-only and prices it without writing.
func RunPlan(ctx context.Context, log zerolog.Logger, cfg *config.Config) ([]PlanRow, model.DataRange, error) {
	params, err := config.LoadStudyParameters(cfg.ParamsPath)
	if err != nil {
		return nil, model.DataRange{}, &PipelineError{Phase: PhaseValidate, Err: err}
	}

	layout := layoutFor(cfg)
	wb, err := xlsx.Open(cfg.TemplatePath, layout.SheetName)
	if err != nil {
		return nil, model.DataRange{}, &PipelineError{Phase: PhaseOpen, Err: err}
	}
	defer wb.Close()

	engine := pricing.NewEngine(rules.Default(), pricing.DefaultTables(), cfg.Workers)
	rows, rng, err := Plan(ctx, wb, params, Options{Layout: layout, Engine: engine, StrictTotal: cfg.StrictTotal})
	if err != nil {
		return nil, rng, &PipelineError{Phase: PhaseFill, Err: err}
	}
	log.Debug().Int("rows", len(rows)).Msg("plan computed")
	return rows, rng, nil
}
