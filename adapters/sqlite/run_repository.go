package sqlite

import (
	"context"
	"os"
	"path/filepath"

	"ncclens/domain/run"
	"ncclens/internal/errors"
	"ncclens/internal/migration"
	"ncclens/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// runRepository implements ports.RunRecorder on a SQLite file
type runRepository struct {
	db *sqlx.DB
}

// Open connects to (and if needed creates) the ledger database at path
func Open(ctx context.Context, path string) (ports.RunRecorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.DatabaseError("failed to create ledger directory", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, errors.DatabaseError("failed to open run ledger "+path, err)
	}
	// a single writer keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &runRepository{db: db}, nil
}

// Record inserts a run
func (r *runRepository) Record(ctx context.Context, rec *run.Run) error {
	query := `INSERT INTO ingestion_runs (
		id, source, sheet, marker, output, status, error_code, error_message,
		row_count, corporate_rows, retail_rows, dropped_rows, output_hash, started_at, finished_at
	) VALUES (
		:id, :source, :sheet, :marker, :output, :status, :error_code, :error_message,
		:row_count, :corporate_rows, :retail_rows, :dropped_rows, :output_hash, :started_at, :finished_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return errors.DatabaseError("failed to record run "+rec.ID, err)
	}
	return nil
}

// List returns the most recent runs first
func (r *runRepository) List(ctx context.Context, limit int) ([]*run.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []*run.Run
	query := `SELECT id, source, sheet, marker, output, status, error_code, error_message,
		row_count, corporate_rows, retail_rows, dropped_rows, output_hash, started_at, finished_at
	FROM ingestion_runs
	ORDER BY started_at DESC
	LIMIT ?`
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, errors.DatabaseError("failed to list runs", err)
	}
	return runs, nil
}

// Close releases the database handle
func (r *runRepository) Close() error {
	return r.db.Close()
}
