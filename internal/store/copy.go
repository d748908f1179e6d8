package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/aihaudit/internal/db"
	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
)

const copyBatchSize = 1024

func copyLines(ctx context.Context, pool *pgxpool.Pool, runID string, lines []model.ClaimLine) (int64, error) {
	ch := make(chan *model.StagedLine, copyBatchSize)
	go func() {
		defer close(ch)
		for i := range lines {
			l := &lines[i]
			staged := &model.StagedLine{
				RunID:           runID,
				SourceRowNumber: int64(i + 1),
				SourceRowHash: normalize.RowHashFromValues(int64(i+1),
					l.ClaimID,
					normalize.Deref(l.ProcedureCode),
					normalize.Deref(l.ProfessionalTaxID),
					normalize.Deref(l.InvoiceNumber),
				),
				Line: *l,
			}
			select {
			case ch <- staged:
			case <-ctx.Done():
				return
			}
		}
	}()

	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"audit", "claim_lines"},
		model.ClaimLineColumns(),
		db.NewChannelSource(ch),
	)
	if err != nil {
		return 0, fmt.Errorf("copy claim lines: %w", err)
	}
	return n, nil
}

func copyClaims(ctx context.Context, pool *pgxpool.Pool, runID string, claims []model.Claim) (int64, error) {
	ch := make(chan *model.StagedClaim, copyBatchSize)
	go func() {
		defer close(ch)
		for i := range claims {
			select {
			case ch <- &model.StagedClaim{RunID: runID, Claim: claims[i]}:
			case <-ctx.Done():
				return
			}
		}
	}()

	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"audit", "claims"},
		model.ClaimColumns(),
		db.NewChannelSource(ch),
	)
	if err != nil {
		return 0, fmt.Errorf("copy claims: %w", err)
	}
	return n, nil
}

func copySuppliers(ctx context.Context, pool *pgxpool.Pool, runID string, suppliers []model.Supplier) (int64, error) {
	if len(suppliers) == 0 {
		return 0, nil
	}
	ch := make(chan *model.StagedSupplier, copyBatchSize)
	go func() {
		defer close(ch)
		for i := range suppliers {
			select {
			case ch <- &model.StagedSupplier{RunID: runID, Supplier: suppliers[i]}:
			case <-ctx.Done():
				return
			}
		}
	}()

	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"audit", "suppliers"},
		model.SupplierColumns(),
		db.NewChannelSource(ch),
	)
	if err != nil {
		return 0, fmt.Errorf("copy suppliers: %w", err)
	}
	return n, nil
}
