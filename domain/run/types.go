package run

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Status is the outcome of an ingestion run
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run records one execution of the ingestion pipeline
type Run struct {
	ID            string    `db:"id" json:"id"`
	Source        string    `db:"source" json:"source"`
	Sheet         string    `db:"sheet" json:"sheet"`
	Marker        string    `db:"marker" json:"marker"`
	Output        string    `db:"output" json:"output"`
	Status        Status    `db:"status" json:"status"`
	ErrorCode     string    `db:"error_code" json:"error_code,omitempty"`
	ErrorMessage  string    `db:"error_message" json:"error_message,omitempty"`
	RowCount      int       `db:"row_count" json:"row_count"`
	CorporateRows int       `db:"corporate_rows" json:"corporate_rows"`
	RetailRows    int       `db:"retail_rows" json:"retail_rows"`
	DroppedRows   int       `db:"dropped_rows" json:"dropped_rows"`
	OutputHash    string    `db:"output_hash" json:"output_hash,omitempty"`
	StartedAt     time.Time `db:"started_at" json:"started_at"`
	FinishedAt    time.Time `db:"finished_at" json:"finished_at"`
}

// Duration returns how long the run took
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Fingerprint hashes content deterministically; identical merged tables share a fingerprint
func Fingerprint(content []byte) string {
	hash := sha256.Sum256(content)
	return fmt.Sprintf("%x", hash)
}
