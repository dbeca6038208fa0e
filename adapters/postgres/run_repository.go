// Package postgres persists run summaries so runs can be compared over
// time. Only report numbers are stored; fitted models never leave memory.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"churnscope/domain/churn"
	"churnscope/ports"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a run repository over an open connection
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// Connect opens a postgres connection and ensures the runs table exists
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure runs schema: %w", err)
	}
	return db, nil
}

const schema = `CREATE TABLE IF NOT EXISTS churn_runs (
	run_id        TEXT PRIMARY KEY,
	started_at    TIMESTAMPTZ NOT NULL,
	ended_at      TIMESTAMPTZ NOT NULL,
	input_file    TEXT NOT NULL,
	seed          BIGINT NOT NULL,
	dataset_rows  INT NOT NULL,
	churn_rate    DOUBLE PRECISION NOT NULL,
	report        JSONB NOT NULL
)`

// Save inserts one run summary row
func (r *runRepository) Save(ctx context.Context, report *churn.RunReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	query := `INSERT INTO churn_runs (
		run_id, started_at, ended_at, input_file, seed, dataset_rows, churn_rate, report
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		report.RunID.String(),
		time.Time(report.StartedAt),
		time.Time(report.EndedAt),
		report.InputFile,
		report.Seed,
		report.DatasetRows,
		report.ChurnRate,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", report.RunID, err)
	}
	return nil
}
