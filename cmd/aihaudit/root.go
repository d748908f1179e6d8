package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/aihaudit/internal/config"
	"github.com/gyeh/aihaudit/internal/exitcode"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "aihaudit",
	Short: "SUS AIH claim audit engine",
	Long:  "Normalizes SIH/SUS hospital claim extracts (AIH), runs the anomaly detector catalog and exports alert evidence, or bulk-loads the normalized data into Postgres.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("AIHAUDIT_DB_URL"), "Postgres connection string (or set AIHAUDIT_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
