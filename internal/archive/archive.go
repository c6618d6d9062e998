// Package archive persists run history to Postgres. Archiving is optional:
// when no DSN is configured the pipeline runs file-only and skips it.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nateginn/ART-Performance/internal/db"
	"github.com/nateginn/ART-Performance/internal/model"
	sqlq "github.com/nateginn/ART-Performance/internal/sql"
)

// Store writes run and roster history rows.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the archive database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Close() {
	s.pool.Close()
}

// Discrepancy is one archived field-level mismatch.
type Discrepancy struct {
	MatchKey    string
	Description string
}

// RunRecord is the archived summary of one reconciliation run.
type RunRecord struct {
	RunID    uuid.UUID
	Started  time.Time
	Finished time.Time
	Summary  model.ReconSummary
}

// RecordRun inserts the run summary and its discrepancies in one
// transaction.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord, discrepancies []Discrepancy) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sum := rec.Summary
	_, err = tx.Exec(ctx, sqlq.InsertRun,
		rec.RunID, rec.Started, rec.Finished,
		sum.PromptTotal, sum.AMDTotal, sum.Matched, sum.PromptOnly, sum.AMDOnly,
		sum.Discrepancies, sum.PromptDupKeys+sum.AMDDupKeys, sum.MatchQuality())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, d := range discrepancies {
		if _, err := tx.Exec(ctx, sqlq.InsertDiscrepancy, rec.RunID, d.MatchKey, d.Description); err != nil {
			return fmt.Errorf("insert discrepancy: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

// SnapshotRoster records the outcome of one roster maintenance run.
func (s *Store) SnapshotRoster(ctx context.Context, takenAt time.Time, sum model.RosterSummary) error {
	_, err := s.pool.Exec(ctx, sqlq.InsertRosterSnapshot,
		takenAt, sum.SourcePath, len(sum.NewPatients), sum.TotalPatients)
	if err != nil {
		return fmt.Errorf("insert roster snapshot: %w", err)
	}
	return nil
}
