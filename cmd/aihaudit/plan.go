package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/aihaudit/internal/csvread"
	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/exitcode"
	"github.com/gyeh/aihaudit/internal/logging"
	"github.com/gyeh/aihaudit/internal/normalize"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run schema validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.ClaimsFile, "claims", "", "Path to the AIH claims CSV (required)")
	f.StringVar(&cfg.SuppliersFile, "suppliers", "", "Path to the OPME supplier registry CSV")
	_ = planCmd.MarkFlagRequired("claims")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.ValidateWithSuppliers(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.ClaimsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ValidationError)
	}
	stat, err := os.Stat(cfg.ClaimsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to stat file")
		os.Exit(exitcode.ValidationError)
	}

	f, err := csvread.Open(cfg.ClaimsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to open claims file")
		os.Exit(exitcode.ValidationError)
	}
	if err := csvread.ValidateClaims(f); err != nil {
		log.Error().Err(err).Msg("schema validation failed")
		os.Exit(exitcode.ValidationError)
	}

	lines, quality := normalize.BuildLines(f, log)
	claims := dataset.BuildClaimView(lines)

	devices := 0
	yearMin, yearMax := 0, 0
	for i := range lines {
		if lines[i].IsDevice {
			devices++
		}
		y := lines[i].AdmissionYear
		if y == 0 {
			continue
		}
		if yearMin == 0 || y < yearMin {
			yearMin = y
		}
		if y > yearMax {
			yearMax = y
		}
	}

	supplierCount := 0
	if cfg.SuppliersFile != "" {
		sf, err := csvread.Open(cfg.SuppliersFile)
		if err != nil {
			log.Error().Err(err).Msg("failed to open suppliers file")
			os.Exit(exitcode.ValidationError)
		}
		if err := csvread.ValidateSuppliers(sf); err != nil {
			log.Error().Err(err).Msg("supplier schema validation failed")
			os.Exit(exitcode.ValidationError)
		}
		supplierCount = len(normalize.BuildSuppliers(sf, log))
	}

	fmt.Println("=== aihaudit plan ===")
	fmt.Printf("File:        %s\n", cfg.ClaimsFile)
	fmt.Printf("SHA-256:     %s\n", sha)
	fmt.Printf("Size:        %d bytes\n", stat.Size())
	fmt.Printf("Lines:       %d\n", len(lines))
	fmt.Printf("Claims:      %d\n", len(claims))
	fmt.Printf("OPME lines:  %d\n", devices)
	if yearMin != 0 {
		fmt.Printf("Admissions:  %d-%d\n", yearMin, yearMax)
	}
	if cfg.SuppliersFile != "" {
		fmt.Printf("Suppliers:   %d\n", supplierCount)
	}
	fmt.Println()
	fmt.Println("Data quality (coerced cells):")
	fmt.Printf("  bad dates:            %d\n", quality.BadDates)
	fmt.Printf("  bad money values:     %d\n", quality.BadMoney)
	fmt.Printf("  missing admission dt: %d\n", quality.MissingAdmissionDt)
	fmt.Printf("  ids with >1 name:     %d\n", quality.IDsWithMultiNames)
	fmt.Printf("  names with >1 id:     %d\n", quality.NamesWithMultiIDs)
	fmt.Println("Schema validation: OK")

	return nil
}
