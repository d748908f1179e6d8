// Package store loads a normalized claim extract into Postgres: preflight
// (hash + duplicate check), COPY of lines, claim view and supplier
// registry, then finalize. Each run is keyed by a uuid in audit.audit_runs
// and children cascade on delete, so a failed run never leaves partial
// data behind.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/aihaudit/internal/config"
	"github.com/gyeh/aihaudit/internal/csvread"
	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
	embedsql "github.com/gyeh/aihaudit/internal/sql"
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

// Run executes the full load pipeline: preflight → normalize → copy →
// finalize.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.StoreSummary, error) {
	totalStart := time.Now()

	log.Info().Str("file", cfg.ClaimsFile).Msg("starting preflight")
	sha, err := normalize.FileHash(cfg.ClaimsFile)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	if !cfg.Force {
		var existing, status string
		err := pool.QueryRow(ctx, embedsql.FindRunByHash, sha).Scan(&existing, &status)
		switch {
		case err == nil:
			log.Info().
				Str("run_id", existing).
				Str("sha256", sha).
				Msg("file already loaded, skipping (use --force to re-load)")
			return &model.StoreSummary{
				RunID:         existing,
				ClaimsFile:    cfg.ClaimsFile,
				FileSHA256:    sha,
				DurationTotal: time.Since(totalStart),
			}, nil
		case err == pgx.ErrNoRows:
			// First load of this file.
		default:
			return nil, &PipelineError{Phase: "preflight", Err: err}
		}
	}

	runID := uuid.New().String()
	if _, err := pool.Exec(ctx, embedsql.RegisterAuditRun, runID, cfg.ClaimsFile, sha); err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	log.Info().Str("run_id", runID).Msg("normalizing input")
	lines, claims, suppliers, err := loadInput(cfg, log)
	if err != nil {
		cleanupRun(ctx, pool, log, runID)
		return nil, &PipelineError{Phase: "normalize", Err: err}
	}

	copyStart := time.Now()
	nLines, err := copyLines(ctx, pool, runID, lines)
	if err != nil {
		cleanupRun(ctx, pool, log, runID)
		return nil, &PipelineError{Phase: "copy", Err: err}
	}
	nClaims, err := copyClaims(ctx, pool, runID, claims)
	if err != nil {
		cleanupRun(ctx, pool, log, runID)
		return nil, &PipelineError{Phase: "copy", Err: err}
	}
	nSuppliers, err := copySuppliers(ctx, pool, runID, suppliers)
	if err != nil {
		cleanupRun(ctx, pool, log, runID)
		return nil, &PipelineError{Phase: "copy", Err: err}
	}
	copyDur := time.Since(copyStart)

	log.Info().Msg("finalizing")
	if _, err := pool.Exec(ctx, embedsql.FinalizeAuditRun, runID, nLines, nClaims, nSuppliers); err != nil {
		cleanupRun(ctx, pool, log, runID)
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}
	if _, err := pool.Exec(ctx, embedsql.AnalyzeTables); err != nil {
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	summary := &model.StoreSummary{
		RunID:           runID,
		ClaimsFile:      cfg.ClaimsFile,
		FileSHA256:      sha,
		LinesCopied:     nLines,
		ClaimsCopied:    nClaims,
		SuppliersCopied: nSuppliers,
		DurationCopy:    copyDur,
		DurationTotal:   time.Since(totalStart),
	}
	log.Info().
		Str("run_id", summary.RunID).
		Int64("lines", summary.LinesCopied).
		Int64("claims", summary.ClaimsCopied).
		Int64("suppliers", summary.SuppliersCopied).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("load pipeline complete")
	return summary, nil
}

func loadInput(cfg *config.Config, log zerolog.Logger) ([]model.ClaimLine, []model.Claim, []model.Supplier, error) {
	f, err := csvread.Open(cfg.ClaimsFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := csvread.ValidateClaims(f); err != nil {
		return nil, nil, nil, err
	}
	lines, _ := normalize.BuildLines(f, log)
	claims := dataset.BuildClaimView(lines)

	var suppliers []model.Supplier
	if cfg.SuppliersFile != "" {
		sf, err := csvread.Open(cfg.SuppliersFile)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := csvread.ValidateSuppliers(sf); err != nil {
			return nil, nil, nil, err
		}
		suppliers = normalize.BuildSuppliers(sf, log)
	}
	return lines, claims, suppliers, nil
}

// cleanupRun removes a failed run; children cascade.
func cleanupRun(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID string) {
	if _, err := pool.Exec(ctx, embedsql.DeleteAuditRun, runID); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("run cleanup failed (non-fatal)")
	}
}
