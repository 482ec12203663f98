package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gyeh/trialcost/internal/exitcode"
	"github.com/gyeh/trialcost/internal/fill"
	"github.com/gyeh/trialcost/internal/logging"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry run: show the rule and amounts of every row (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.TemplatePath, "template", "", "Path to the cost template workbook (required)")
	f.StringVar(&cfg.ParamsPath, "params", "", "Path to the study parameters YAML file (required)")
	f.BoolVar(&cfg.StrictTotal, "strict-total", false, "Fail when the template has no grand-total row")
	_ = planCmd.MarkFlagRequired("template")
	_ = planCmd.MarkFlagRequired("params")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	rows, rng, err := fill.RunPlan(context.Background(), log, &cfg)
	if err != nil {
		log.Error().Err(err).Str("phase", phaseOf(err)).Msg("plan failed")
		os.Exit(exitCodeFor(err))
	}

	fmt.Println("=== matrice plan ===")
	fmt.Printf("Template:   %s\n", cfg.TemplatePath)
	fmt.Printf("Data rows:  %d..%d\n", rng.FirstRow, rng.LastRow)
	if rng.TotalRow > 0 {
		fmt.Printf("Total row:  %d\n", rng.TotalRow)
	} else {
		fmt.Println("Total row:  none (grand total will not be written)")
	}
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tRULE\tQTY\tUNIT\tCENTER TOTAL\tDESIGNATION")
	var total float64
	priced := 0
	for _, r := range rows {
		rule := r.Rule
		if rule == "" {
			rule = "-"
		}
		if r.Line == nil {
			fmt.Fprintf(tw, "%d\t%s\t\t\t\t%s\n", r.Row, rule, r.Designation)
			continue
		}
		priced++
		total += r.Line.CenterTotal
		fmt.Fprintf(tw, "%d\t%s\t%g\t%.2f\t%.2f\t%s\n",
			r.Row, rule, r.Line.Quantity, r.Line.UnitRate, r.Line.CenterTotal, r.Designation)
	}
	if err := tw.Flush(); err != nil {
		os.Exit(exitcode.WriteError)
	}

	fmt.Printf("\nRows priced: %d of %d\n", priced, len(rows))
	fmt.Printf("Projected grand total: %s\n", humanize.FormatFloat("# ###,##", total))
	return nil
}
