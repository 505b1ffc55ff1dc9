// Package artifact persists the merged client table as a flat CSV file and
// reads it back for the report and dashboard consumers.
package artifact

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ncclens/domain/table"
	"ncclens/internal/errors"
)

// Write stores t at path as CSV. The data goes to a temporary file in the same
// directory which is renamed over path only once fully written, so a failed
// write never leaves a partial artifact behind.
func Write(path string, t *table.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Encode(tmp, t); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	// CreateTemp opens 0600; the published artifact is read by other processes
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to set permissions on %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to flush %s", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(err, "failed to move artifact into place at %s", path)
	}
	return nil
}

// Encode writes the header and rows of t as CSV
func Encode(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// Read loads a CSV artifact. A missing file and an unusable file are reported
// with distinct codes so consumers can tell the user which one happened.
func Read(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.DataFileNotFound(path)
		}
		return nil, errors.MalformedData(fmt.Sprintf("cannot open data file %s", path), err)
	}
	defer f.Close()

	return Decode(f, path)
}

// Decode parses CSV content; name is used in error messages only
func Decode(r io.Reader, name string) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.MalformedData(fmt.Sprintf("data file %s is not valid CSV", name), err)
	}
	if len(records) == 0 {
		return nil, errors.MalformedData(fmt.Sprintf("data file %s is empty", name), nil)
	}

	return &table.Table{Columns: records[0], Rows: records[1:]}, nil
}
