package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gyeh/trialcost/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:          "matrice",
	Short:        "Clinical-trial cost template filler",
	Long:         "Fills the additional-cost annex of a clinical-trial cost template from study parameters, and clears it again.",
	SilenceUsage: true,
}

func init() {
	// A .env file in the working directory may provide TRIALCOST_DB_URL.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("TRIALCOST_DB_URL"), "Postgres connection string for run history (or set TRIALCOST_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&cfg.SheetName, "sheet", "", "Worksheet holding the cost annex (default \"Annexe 2.1+MO-autorisation24\")")
}
