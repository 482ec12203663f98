package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gyeh/trialcost/internal/db"
	"github.com/gyeh/trialcost/internal/exitcode"
	"github.com/gyeh/trialcost/internal/history"
	"github.com/gyeh/trialcost/internal/logging"
)

var historyCmd = &cobra.Command{
	Use:   "history RUN_ID",
	Short: "Show the stored totals of a recorded fill run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	runID, err := uuid.Parse(args[0])
	if err != nil {
		log.Error().Err(err).Msg("invalid run id")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	t, err := history.Lookup(ctx, pool, runID)
	if errors.Is(err, history.ErrRunNotFound) {
		log.Error().Str("run_id", runID.String()).Msg("run not found")
		os.Exit(exitcode.LookupError)
	}
	if err != nil {
		log.Error().Err(err).Msg("history lookup failed")
		os.Exit(exitcode.DBConnError)
	}

	fmt.Printf("Run:           %s\n", runID)
	fmt.Printf("Rows updated:  %d (%d stored lines)\n", t.RowsUpdated, t.Lines)
	fmt.Printf("Grand total:   %s\n", humanize.FormatFloat("# ###,##", t.GrandTotal))
	fmt.Printf("Sum of lines:  %s\n", humanize.FormatFloat("# ###,##", t.LinesTotal))
	return nil
}
