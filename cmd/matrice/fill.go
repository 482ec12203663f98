package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gyeh/trialcost/internal/fill"
	"github.com/gyeh/trialcost/internal/logging"
	"github.com/gyeh/trialcost/internal/model"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Compute quantities and totals into a copy of the template",
	RunE:  runFill,
}

func init() {
	f := fillCmd.Flags()
	f.StringVar(&cfg.TemplatePath, "template", "", "Path to the cost template workbook (required)")
	f.StringVar(&cfg.ParamsPath, "params", "", "Path to the study parameters YAML file (required)")
	f.StringVar(&cfg.OutputPath, "out", "", "Output workbook (default <template>_remplie.<ext>)")
	f.StringVar(&cfg.ReportPath, "report", "", "Also write the priced lines to this Parquet file")
	f.IntVar(&cfg.Workers, "workers", 0, "Rows priced concurrently (0 = default)")
	f.BoolVar(&cfg.StrictTotal, "strict-total", false, "Fail when the template has no grand-total row")
	_ = fillCmd.MarkFlagRequired("template")
	_ = fillCmd.MarkFlagRequired("params")
	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := fill.Run(ctx, log, &cfg)
	if err != nil {
		log.Error().Err(err).Str("phase", phaseOf(err)).Msg("fill failed")
		os.Exit(exitCodeFor(err))
	}

	printSummary(summary)
	return nil
}

func printSummary(s *model.RunSummary) {
	fmt.Println("Matrice générée avec succès.")
	fmt.Printf("Fichier enregistré : %s\n", filepath.Base(s.OutputPath))
	fmt.Printf("Lignes mises à jour : %d\n", s.RowsUpdated)
	fmt.Printf("Répartition des visites : screening %d, visite sur site %d, visite finale %d\n",
		s.Categories.Screening, s.Categories.OnsiteVisit, s.Categories.FinalVisit)
	fmt.Printf("Total général : %s\n", humanize.FormatFloat("# ###,##", s.GrandTotal))
	fmt.Printf("Run %s (%.1fs)\n", s.RunID, s.DurationTotal.Seconds())
}
