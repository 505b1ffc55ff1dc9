package app

import (
	"bytes"
	"context"
	"time"

	"ncclens/domain/run"
	"ncclens/domain/table"
	"ncclens/internal"
	"ncclens/internal/artifact"
	"ncclens/internal/config"
	"ncclens/internal/dataset"
	"ncclens/internal/errors"
	"ncclens/ports"

	"github.com/google/uuid"
)

// IngestRequest defines the inputs of one ingestion run
type IngestRequest struct {
	Workbook     string
	Sheet        string
	Marker       string
	MarkerColumn int
	Output       string // CSV artifact path; empty skips writing
	Merge        dataset.MergeOptions
}

// IngestResult contains the merged table and what the run produced
type IngestResult struct {
	RunID        string
	Table        *table.Table
	Merge        *dataset.MergeResult
	ExtraMarkers []int
	Output       string
	Fingerprint  string
	Duration     time.Duration
}

// IngestService runs load -> split -> merge -> write as one synchronous pass
type IngestService struct {
	loader   ports.SheetLoader
	recorder ports.RunRecorder
	log      *internal.Logger
}

// NewIngestService creates the service; recorder may be nil to skip the run ledger
func NewIngestService(loader ports.SheetLoader, recorder ports.RunRecorder, log *internal.Logger) *IngestService {
	if log == nil {
		log = internal.NewNopLogger()
	}
	return &IngestService{loader: loader, recorder: recorder, log: log}
}

// Ingest executes the pipeline. Any failure aborts the run before the output is
// touched; the artifact is written only after a successful merge. ctx is used
// for the run ledger only, the pipeline itself is not cancellable.
func (s *IngestService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	rec := &run.Run{
		ID:        uuid.New().String(),
		Source:    req.Workbook,
		Sheet:     req.Sheet,
		Marker:    req.Marker,
		Output:    req.Output,
		StartedAt: time.Now(),
	}

	result, err := s.ingest(req, rec)
	rec.FinishedAt = time.Now()
	if err != nil {
		rec.Status = run.StatusFailed
		rec.ErrorCode = errors.GetCode(err)
		rec.ErrorMessage = err.Error()
		s.log.Error("[Ingest] run %s failed: %v", rec.ID, err)
	} else {
		rec.Status = run.StatusSucceeded
		result.Duration = rec.Duration()
		s.log.Info("[Ingest] run %s merged %d rows (%s=%d, %s=%d, dropped %d) in %s",
			rec.ID, rec.RowCount, req.Merge.Labels[0], rec.CorporateRows, req.Merge.Labels[1], rec.RetailRows,
			rec.DroppedRows, result.Duration)
	}

	s.record(ctx, rec)
	return result, err
}

func (s *IngestService) ingest(req IngestRequest, rec *run.Run) (*IngestResult, error) {
	grid, err := s.loader.LoadSheet(req.Workbook, req.Sheet)
	if err != nil {
		return nil, err
	}

	split, err := dataset.SplitByMarker(grid, req.Marker, req.MarkerColumn)
	if err != nil {
		return nil, err
	}
	for _, row := range split.Markers {
		s.log.Trace("[Ingest] marker %q at row %d", req.Marker, row)
	}
	if extra := split.ExtraMarkers(); len(extra) > 0 {
		s.log.Warn("[Ingest] marker %q found %d times; rows %v are kept as data of segment B",
			req.Marker, len(split.Markers), extra)
	}

	merged, err := dataset.Merge(split.Header, split.A, split.B, req.Merge)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := artifact.Encode(&buf, merged.Table); err != nil {
		return nil, errors.Wrap(err, "failed to encode merged table")
	}
	fingerprint := run.Fingerprint(buf.Bytes())

	if req.Output != "" {
		if err := artifact.Write(req.Output, merged.Table); err != nil {
			return nil, err
		}
	}

	rec.RowCount = merged.RowCount
	rec.CorporateRows = merged.SegmentRows[0]
	rec.RetailRows = merged.SegmentRows[1]
	rec.DroppedRows = merged.DroppedRows
	rec.OutputHash = fingerprint

	return &IngestResult{
		RunID:        rec.ID,
		Table:        merged.Table,
		Merge:        merged,
		ExtraMarkers: split.ExtraMarkers(),
		Output:       req.Output,
		Fingerprint:  fingerprint,
	}, nil
}

// record stores the run; a ledger failure is logged and never fails the run
func (s *IngestService) record(ctx context.Context, rec *run.Run) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		s.log.Warn("[Ingest] could not record run %s: %v", rec.ID, err)
	}
}

// RequestFromConfig builds an ingest request from the loaded configuration
func RequestFromConfig(cfg *config.Config) IngestRequest {
	return IngestRequest{
		Workbook:     cfg.Ingest.Workbook,
		Sheet:        cfg.Ingest.Sheet,
		Marker:       cfg.Ingest.Marker,
		MarkerColumn: cfg.Ingest.MarkerColumn,
		Output:       cfg.Data.MergedFile,
		Merge: dataset.MergeOptions{
			Labels:         cfg.Ingest.OriginLabels,
			TagOrigin:      cfg.Ingest.TagOrigin,
			OriginColumn:   cfg.Ingest.OriginColumn,
			SequenceColumn: cfg.Ingest.SequenceColumn,
		},
	}
}
