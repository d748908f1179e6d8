package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/aihaudit/internal/csvread"
	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/detect"
	"github.com/gyeh/aihaudit/internal/exitcode"
	"github.com/gyeh/aihaudit/internal/export"
	"github.com/gyeh/aihaudit/internal/logging"
	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
	"github.com/gyeh/aihaudit/internal/report"
)

var auditConfigFile string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the anomaly detector catalog over a claim extract",
	RunE:  runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&cfg.ClaimsFile, "claims", "", "Path to the AIH claims CSV (required)")
	f.StringVar(&cfg.SuppliersFile, "suppliers", "", "Path to the OPME supplier registry CSV")
	f.StringVarP(&cfg.OutDir, "out", "o", "aihaudit-out", "Output directory")
	f.StringVar(&cfg.Format, "format", "csv", "View export format: csv or parquet")
	f.BoolVar(&cfg.BOM, "bom", false, "Prepend a UTF-8 BOM to CSV files (Excel)")
	f.BoolVar(&cfg.Reports, "reports", false, "Also write the summary report tables")
	f.IntVar(&cfg.YearMin, "year-min", 0, "Keep only admissions from this year on")
	f.IntVar(&cfg.YearMax, "year-max", 0, "Keep only admissions up to this year")
	f.StringVar(&cfg.Physician, "physician", "", "Restrict to one physician name")
	f.StringVar(&cfg.Procedure, "procedure", "", "Restrict to one principal procedure")
	f.StringVar(&cfg.FacilityID, "facility", "", "Restrict to one facility (CNES)")
	f.StringVar(&auditConfigFile, "config", "", "YAML config file (alert subset)")
	_ = auditCmd.MarkFlagRequired("claims")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	totalStart := time.Now()

	if auditConfigFile != "" {
		if err := cfg.LoadFromFile(auditConfigFile); err != nil {
			log.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.ValidateWithSuppliers(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	runID := uuid.New().String()
	log = log.With().Str("run_id", runID).Logger()

	loadStart := time.Now()
	view, summary, err := loadView(log)
	if err != nil {
		log.Error().Err(err).Msg("input load failed")
		os.Exit(exitcode.ValidationError)
	}
	summary.RunID = runID
	summary.DurationLoad = time.Since(loadStart)

	filtered := view.Filter(cfg.FilterSpec())
	summary.LinesFiltered = len(filtered.Lines)
	summary.ClaimsFiltered = len(filtered.Claims)
	if !cfg.FilterSpec().IsZero() {
		log.Info().
			Int("lines", len(filtered.Lines)).
			Int("claims", len(filtered.Claims)).
			Msg("filters applied")
	}

	detectors, err := detect.Select(cfg.Alerts)
	if err != nil {
		log.Error().Err(err).Msg("alert selection failed")
		os.Exit(exitcode.UsageError)
	}

	runStart := time.Now()
	results := detect.RunAll(detectors, filtered, log)
	summary.DurationRun = time.Since(runStart)
	summary.AlertsFound = len(results)
	for _, r := range results {
		summary.RowsFlagged += r.Table.Len()
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		log.Error().Err(err).Msg("cannot create output directory")
		os.Exit(exitcode.ExportError)
	}
	opts := export.Options{OutDir: cfg.OutDir, BOM: cfg.BOM}

	paths, err := export.WriteAlerts(results, opts)
	if err != nil {
		log.Error().Err(err).Msg("alert export failed")
		os.Exit(exitcode.ExportError)
	}
	summary.FilesWritten += len(paths)

	n, err := writeViews(filtered, opts)
	if err != nil {
		log.Error().Err(err).Msg("view export failed")
		os.Exit(exitcode.ExportError)
	}
	summary.FilesWritten += n

	if cfg.Reports {
		for _, r := range report.BuildAll(filtered) {
			if _, err := export.WriteTable("relatorio_"+r.Name, r.Table, opts); err != nil {
				log.Error().Err(err).Msg("report export failed")
				os.Exit(exitcode.ExportError)
			}
			summary.FilesWritten++
		}
	}
	summary.DurationTotal = time.Since(totalStart)

	fmt.Printf("Audit complete: %d lines, %d claims, %d alerts (%d rows flagged), %d files in %s (%.1fs)\n",
		summary.LinesFiltered, summary.ClaimsFiltered, summary.AlertsFound,
		summary.RowsFlagged, summary.FilesWritten, cfg.OutDir, summary.DurationTotal.Seconds())
	return nil
}

func loadView(log zerolog.Logger) (*dataset.View, *model.AuditSummary, error) {
	f, err := csvread.Open(cfg.ClaimsFile)
	if err != nil {
		return nil, nil, err
	}
	if err := csvread.ValidateClaims(f); err != nil {
		return nil, nil, err
	}
	lines, _ := normalize.BuildLines(f, log)

	var suppliers []model.Supplier
	if cfg.SuppliersFile != "" {
		sf, err := csvread.Open(cfg.SuppliersFile)
		if err != nil {
			return nil, nil, err
		}
		if err := csvread.ValidateSuppliers(sf); err != nil {
			return nil, nil, err
		}
		suppliers = normalize.BuildSuppliers(sf, log)
	}

	view := dataset.NewView(lines, suppliers)
	summary := &model.AuditSummary{
		ClaimsFile:    cfg.ClaimsFile,
		SuppliersFile: cfg.SuppliersFile,
		LinesRead:     len(view.Lines),
		Claims:        len(view.Claims),
		Suppliers:     len(view.Suppliers),
	}
	return view, summary, nil
}

func writeViews(v *dataset.View, opts export.Options) (int, error) {
	if cfg.Format == "parquet" {
		if _, err := export.WriteClaimLinesParquet("linhas_aih", v.Lines, opts); err != nil {
			return 0, err
		}
		if _, err := export.WriteClaimsParquet("aih_consolidadas", v.Claims, opts); err != nil {
			return 1, err
		}
		return 2, nil
	}

	n := 0
	if lines := export.ClaimLinesTable(v.Lines); !lines.Empty() {
		if _, err := export.WriteTable("linhas_aih", lines, opts); err != nil {
			return n, err
		}
		n++
	}
	if claims := export.ClaimsTable(v.Claims); !claims.Empty() {
		if _, err := export.WriteTable("aih_consolidadas", claims, opts); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
