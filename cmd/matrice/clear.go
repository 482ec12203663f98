package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gyeh/trialcost/internal/fill"
	"github.com/gyeh/trialcost/internal/logging"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove computed quantities, totals and highlights from a workbook, in place",
	RunE:  runClear,
}

func init() {
	f := clearCmd.Flags()
	f.StringVar(&cfg.TemplatePath, "template", "", "Path to the filled workbook (required)")
	f.BoolVarP(&cfg.Yes, "yes", "y", false, "Confirm that the workbook is modified in place")
	_ = clearCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	n, err := fill.RunClear(context.Background(), log, &cfg)
	if err != nil {
		log.Error().Err(err).Str("phase", phaseOf(err)).Msg("clear failed")
		os.Exit(exitCodeFor(err))
	}

	fmt.Printf("%d cellule(s) ont été effacées dans %s.\n", n, filepath.Base(cfg.TemplatePath))
	return nil
}
