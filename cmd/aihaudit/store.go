package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/aihaudit/internal/db"
	"github.com/gyeh/aihaudit/internal/exitcode"
	"github.com/gyeh/aihaudit/internal/logging"
	"github.com/gyeh/aihaudit/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Load a normalized claim extract into Postgres",
	RunE:  runStore,
}

func init() {
	f := storeCmd.Flags()
	f.StringVar(&cfg.ClaimsFile, "claims", "", "Path to the AIH claims CSV (required)")
	f.StringVar(&cfg.SuppliersFile, "suppliers", "", "Path to the OPME supplier registry CSV")
	f.BoolVar(&cfg.Force, "force", false, "Re-load even if file SHA already exists")
	_ = storeCmd.MarkFlagRequired("claims")
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

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

	summary, err := store.Run(ctx, pool, log, &cfg)
	if err != nil {
		var pe *store.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("load failed")
			switch pe.Phase {
			case "preflight", "normalize":
				os.Exit(exitcode.ValidationError)
			default:
				os.Exit(exitcode.CopyError)
			}
		}
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.CopyError)
	}

	fmt.Printf("Load complete: run %s, %d lines, %d claims, %d suppliers (%.1fs)\n",
		summary.RunID, summary.LinesCopied, summary.ClaimsCopied,
		summary.SuppliersCopied, summary.DurationTotal.Seconds())
	return nil
}
