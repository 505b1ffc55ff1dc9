package ports

import (
	"context"

	"ncclens/domain/run"
)

// RunRecorder persists ingestion run records
type RunRecorder interface {
	Record(ctx context.Context, r *run.Run) error
	List(ctx context.Context, limit int) ([]*run.Run, error)
	Close() error
}
