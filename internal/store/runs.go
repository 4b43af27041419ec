// Package store persists parse runs to PostgreSQL. Persistence is optional:
// when no database is configured the service runs stateless and the run
// history endpoints report that.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cogenworks/plantparse/internal/engine"
)

// RunStore reads and writes parse run records.
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore creates a run store on the given pool.
func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

// RunRecord is one persisted parse run. Report holds the full report as
// produced at parse time.
type RunRecord struct {
	ID              string         `json:"id"`
	FileName        string         `json:"file_name"`
	SheetName       string         `json:"sheet_name"`
	MappedColumns   int            `json:"mapped_columns"`
	UnmappedColumns int            `json:"unmapped_columns"`
	WarningCount    int            `json:"warning_count"`
	Report          *engine.Report `json:"report,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS parse_runs (
	id UUID PRIMARY KEY,
	file_name TEXT NOT NULL,
	sheet_name TEXT NOT NULL,
	mapped_columns INT NOT NULL,
	unmapped_columns INT NOT NULL,
	warning_count INT NOT NULL,
	report JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS parse_runs_created_at_idx ON parse_runs (created_at DESC);
`

// Ping verifies the database connection.
func (s *RunStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates the parse_runs table when missing.
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure parse_runs schema: %w", err)
	}
	return nil
}

// SaveRun stores a completed parse run and returns its id.
func (s *RunStore) SaveRun(ctx context.Context, fileName string, report *engine.Report) (string, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	id := uuid.New().String()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO parse_runs
			(id, file_name, sheet_name, mapped_columns, unmapped_columns, warning_count, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, fileName, report.SheetName,
		report.Metadata.MappedColumns, report.Metadata.UnmappedColumns,
		len(report.Warnings), reportJSON,
	)
	if err != nil {
		return "", fmt.Errorf("insert parse run: %w", err)
	}
	return id, nil
}

// RecentRuns returns run summaries ordered newest first. Reports are omitted
// from the listing; GetRun retrieves a single run in full.
func (s *RunStore) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, file_name, sheet_name, mapped_columns, unmapped_columns, warning_count, created_at
		FROM parse_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query parse runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0)
	for rows.Next() {
		var (
			rec       RunRecord
			id        pgtype.UUID
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &rec.FileName, &rec.SheetName,
			&rec.MappedColumns, &rec.UnmappedColumns, &rec.WarningCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan parse run: %w", err)
		}
		rec.ID = uuid.UUID(id.Bytes).String()
		rec.CreatedAt = createdAt.Time
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// GetRun returns one run with its full report.
func (s *RunStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}

	var (
		rec        RunRecord
		pgID       pgtype.UUID
		reportJSON []byte
		createdAt  pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, file_name, sheet_name, mapped_columns, unmapped_columns, warning_count, report, created_at
		FROM parse_runs WHERE id = $1`, id).
		Scan(&pgID, &rec.FileName, &rec.SheetName,
			&rec.MappedColumns, &rec.UnmappedColumns, &rec.WarningCount, &reportJSON, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get parse run %s: %w", id, err)
	}

	rec.ID = uuid.UUID(pgID.Bytes).String()
	rec.CreatedAt = createdAt.Time
	if err := json.Unmarshal(reportJSON, &rec.Report); err != nil {
		return nil, fmt.Errorf("decode stored report: %w", err)
	}
	return &rec, nil
}
