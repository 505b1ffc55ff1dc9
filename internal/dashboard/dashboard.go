// Package dashboard serves filtered views and metrics over the merged client table.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"ncclens/domain/table"
	"ncclens/internal"
	"ncclens/internal/artifact"
	"ncclens/internal/config"
	"ncclens/internal/insights"
	"ncclens/internal/normalize"
)

// Dataset is one normalized load of the merged artifact
type Dataset struct {
	Path     string
	Table    *table.Table
	Audit    normalize.Audit
	LoadedAt time.Time
}

// Source loads the artifact through an mtime cache and normalizes it once per load
type Source struct {
	path  string
	cols  config.ColumnConfig
	cache *artifact.Cache[*Dataset]
	log   *internal.Logger
}

// NewSource creates a Source reading path. A nil normalizer uses the default mappings
// for the configured client type and status columns.
func NewSource(path string, cols config.ColumnConfig, normalizer *normalize.Normalizer, log *internal.Logger) *Source {
	if log == nil {
		log = internal.NewNopLogger()
	}
	if normalizer == nil {
		normalizer = normalize.New(
			normalize.ClientTypeMapping(cols.ClientType),
			normalize.StatusMapping(cols.Status),
		)
	}

	s := &Source{path: path, cols: cols, log: log}
	s.cache = artifact.NewCache(func(p string) (*Dataset, error) {
		t, err := artifact.Read(p)
		if err != nil {
			return nil, err
		}
		if err := insights.RequireColumns(t, cols); err != nil {
			return nil, err
		}
		normalized, audit := normalizer.Apply(t)
		if !audit.Clean() {
			for _, u := range audit.Unmapped {
				log.Warn("[Dashboard] unmapped %s value %q in %d row(s)", u.Column, u.Value, u.Count)
			}
		}
		log.Info("[Dashboard] loaded %d rows from %s (%d value(s) normalized)", normalized.Len(), p, audit.Rewritten)
		return &Dataset{Path: p, Table: normalized, Audit: audit, LoadedAt: time.Now()}, nil
	})
	return s
}

// Path returns the artifact location
func (s *Source) Path() string {
	return s.path
}

// Columns returns the column configuration used for filtering and metrics
func (s *Source) Columns() config.ColumnConfig {
	return s.cols
}

// Load returns the current dataset, rereading the file only when it changed on disk.
// The returned dataset is shared and must not be modified.
func (s *Source) Load() (*Dataset, error) {
	return s.cache.Get(s.path)
}

// Loads reports how many times the artifact was read from disk
func (s *Source) Loads() int {
	return s.cache.Loads()
}

// Filter is a multi-select over four dimensions. Dimensions are AND-combined;
// an empty selection leaves its dimension unconstrained.
type Filter struct {
	Regions     []string `json:"regions"`
	States      []string `json:"states"`
	ClientTypes []string `json:"client_types"`
	Statuses    []string `json:"statuses"`
}

// IsZero reports whether the filter selects everything
func (f Filter) IsZero() bool {
	return len(f.Regions) == 0 && len(f.States) == 0 && len(f.ClientTypes) == 0 && len(f.Statuses) == 0
}

// Apply returns the rows of t matching every non-empty selection
func (f Filter) Apply(t *table.Table, cols config.ColumnConfig) *table.Table {
	if f.IsZero() {
		return t
	}

	type constraint struct {
		idx    int
		values map[string]bool
	}
	var constraints []constraint
	for _, sel := range []struct {
		column string
		values []string
	}{
		{cols.Region, f.Regions},
		{cols.State, f.States},
		{cols.ClientType, f.ClientTypes},
		{cols.Status, f.Statuses},
	} {
		if len(sel.values) == 0 {
			continue
		}
		constraints = append(constraints, constraint{idx: t.ColumnIndex(sel.column), values: valueSet(sel.values)})
	}

	return t.Filter(func(row []string) bool {
		for _, c := range constraints {
			if c.idx < 0 || c.idx >= len(row) || !c.values[strings.TrimSpace(row[c.idx])] {
				return false
			}
		}
		return true
	})
}

func valueSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = true
	}
	return set
}

// Options lists the selectable values of each filter dimension
type Options struct {
	Regions     []string `json:"regions"`
	States      []string `json:"states"`
	ClientTypes []string `json:"client_types"`
	Statuses    []string `json:"statuses"`
}

// BuildOptions collects the distinct values of each dimension. State options are
// narrowed to the given regions when any are selected.
func BuildOptions(t *table.Table, cols config.ColumnConfig, regions []string) Options {
	opts := Options{
		Regions:     distinct(t.Column(cols.Region)),
		ClientTypes: distinct(t.Column(cols.ClientType)),
		Statuses:    distinct(t.Column(cols.Status)),
	}

	if len(regions) == 0 {
		opts.States = distinct(t.Column(cols.State))
		return opts
	}
	inRegions := Filter{Regions: regions}.Apply(t, cols)
	opts.States = distinct(inRegions.Column(cols.State))
	return opts
}

func distinct(values []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
