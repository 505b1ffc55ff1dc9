package migration

import (
	"context"

	"ncclens/internal/errors"

	"github.com/jmoiron/sqlx"
)

// MigrationRunner creates the run ledger schema. Every step is idempotent.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the schema version recorded by Run
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all ledger migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createIngestionRunsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create ingestion_runs table", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}

	if err := r.recordVersion(ctx, db); err != nil {
		return errors.DatabaseError("failed to record schema version", err)
	}

	return nil
}

func (r *MigrationRunner) createIngestionRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ingestion_runs (
			id             TEXT PRIMARY KEY,
			source         TEXT NOT NULL,
			sheet          TEXT NOT NULL,
			marker         TEXT NOT NULL,
			output         TEXT NOT NULL,
			status         TEXT NOT NULL,
			error_code     TEXT NOT NULL DEFAULT '',
			error_message  TEXT NOT NULL DEFAULT '',
			row_count      INTEGER NOT NULL DEFAULT 0,
			corporate_rows INTEGER NOT NULL DEFAULT 0,
			retail_rows    INTEGER NOT NULL DEFAULT 0,
			dropped_rows   INTEGER NOT NULL DEFAULT 0,
			output_hash    TEXT NOT NULL DEFAULT '',
			started_at     TIMESTAMP NOT NULL,
			finished_at    TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_ingestion_runs_started_at ON ingestion_runs(started_at)",
		"CREATE INDEX IF NOT EXISTS idx_ingestion_runs_status ON ingestion_runs(status)",
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}

	return nil
}

func (r *MigrationRunner) recordVersion(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, "INSERT OR IGNORE INTO schema_version (version) VALUES (?)", r.Version())
	return err
}
