// Package archive persists report run history. It is optional: without
// a database the pipeline still runs, it just keeps no history.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grupoandino/reportes/internal/contracts"
)

// Run is one archived report run.
type Run struct {
	RunID       string
	Kind        string
	Filename    string
	Records     int
	Excluded    int
	SourceRows  map[string]int
	StartedAt   time.Time
	FinishedAt  time.Time
	Success     bool
	ErrorDetail string
}

// Repository stores run history in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a run repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the run-history table when it is missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS report_runs (
			run_id       TEXT PRIMARY KEY,
			kind         TEXT NOT NULL,
			filename     TEXT,
			records      INTEGER,
			excluded     INTEGER,
			source_rows  JSONB,
			started_at   TIMESTAMPTZ NOT NULL,
			finished_at  TIMESTAMPTZ,
			success      BOOLEAN NOT NULL DEFAULT FALSE,
			error_detail TEXT
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateRun records the start of a report run.
func (r *Repository) CreateRun(ctx context.Context, runID, kind string) error {
	query := `
		INSERT INTO report_runs (run_id, kind, started_at, success)
		VALUES ($1, $2, NOW(), FALSE)
	`
	if _, err := r.pool.Exec(ctx, query, runID, kind); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun records a run's outcome and stats.
func (r *Repository) FinishRun(ctx context.Context, runID string, report *contracts.Report, runErr error) error {
	query := `
		UPDATE report_runs SET
			finished_at = NOW(),
			success = $2,
			filename = $3,
			records = $4,
			excluded = $5,
			source_rows = $6,
			error_detail = $7
		WHERE run_id = $1
	`

	var filename string
	var records, excluded int
	sourceRows := []byte("{}")
	if report != nil {
		filename = report.Filename
		records = report.Stats.Records
		excluded = report.Stats.Excluded
		if encoded, err := json.Marshal(report.Stats.SourceRows); err == nil {
			sourceRows = encoded
		}
	}
	detail := ""
	if runErr != nil {
		detail = runErr.Error()
	}

	if _, err := r.pool.Exec(ctx, query,
		runID, runErr == nil, filename, records, excluded, sourceRows, detail,
	); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecentRuns lists the latest runs, newest first.
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT run_id, kind, COALESCE(filename, ''), COALESCE(records, 0),
			COALESCE(excluded, 0), COALESCE(source_rows, '{}'),
			started_at, COALESCE(finished_at, started_at),
			success, COALESCE(error_detail, '')
		FROM report_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var sourceRows []byte
		if err := rows.Scan(
			&run.RunID, &run.Kind, &run.Filename, &run.Records,
			&run.Excluded, &sourceRows,
			&run.StartedAt, &run.FinishedAt,
			&run.Success, &run.ErrorDetail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal(sourceRows, &run.SourceRows); err != nil {
			run.SourceRows = nil
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by id.
func (r *Repository) GetRun(ctx context.Context, runID string) (*Run, error) {
	query := `
		SELECT run_id, kind, COALESCE(filename, ''), COALESCE(records, 0),
			COALESCE(excluded, 0), COALESCE(source_rows, '{}'),
			started_at, COALESCE(finished_at, started_at),
			success, COALESCE(error_detail, '')
		FROM report_runs
		WHERE run_id = $1
	`

	var run Run
	var sourceRows []byte
	err := r.pool.QueryRow(ctx, query, runID).Scan(
		&run.RunID, &run.Kind, &run.Filename, &run.Records,
		&run.Excluded, &sourceRows,
		&run.StartedAt, &run.FinishedAt,
		&run.Success, &run.ErrorDetail,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if err := json.Unmarshal(sourceRows, &run.SourceRows); err != nil {
		run.SourceRows = nil
	}
	return &run, nil
}
