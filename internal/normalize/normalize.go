// Package normalize maps known synonym spellings of categorical values to their
// canonical form. Every recognised spelling is listed explicitly; anything else
// is left untouched and reported in an Audit.
package normalize

import (
	"sort"
	"strings"

	"ncclens/domain/table"
)

// Mapping is the synonym table for one column. Keys are lower-cased spellings.
type Mapping struct {
	Column   string
	Synonyms map[string]string
}

// Canonical client types and customer statuses
const (
	ClientCorporate     = "Corporate"
	ClientRetail        = "Retail"
	StatusConnected     = "Connected"
	StatusDisconnected  = "Disconnected"
	defaultClientColumn = "CLIENT"
	defaultStatusColumn = "CUSTOMER STATUS"
)

// ClientTypeMapping returns the client-type synonym table for column
func ClientTypeMapping(column string) Mapping {
	return Mapping{
		Column: column,
		Synonyms: map[string]string{
			"corporate":            ClientCorporate,
			"corporate and retail": ClientCorporate,
			"retail":               ClientRetail,
			"retail clients":       ClientRetail,
		},
	}
}

// StatusMapping returns the customer-status synonym table for column
func StatusMapping(column string) Mapping {
	return Mapping{
		Column: column,
		Synonyms: map[string]string{
			"connected":    StatusConnected,
			"active":       StatusConnected,
			"disconnected": StatusDisconnected,
			"inactive":     StatusDisconnected,
			"diconnected":  StatusDisconnected,
		},
	}
}

// DefaultMappings covers the CLIENT and CUSTOMER STATUS columns of the NCC workbook
func DefaultMappings() []Mapping {
	return []Mapping{ClientTypeMapping(defaultClientColumn), StatusMapping(defaultStatusColumn)}
}

// Unmapped is a value that matched no synonym
type Unmapped struct {
	Column string `json:"column"`
	Value  string `json:"value"`
	Count  int    `json:"count"`
}

// Audit records what normalization changed and what it could not map
type Audit struct {
	Rewritten int        `json:"rewritten"`
	Unmapped  []Unmapped `json:"unmapped"`
}

// Clean reports whether every non-empty value was recognised
func (a Audit) Clean() bool {
	return len(a.Unmapped) == 0
}

// Normalizer applies a fixed set of mappings
type Normalizer struct {
	mappings []Mapping
}

// New creates a normalizer; columns absent from a table are skipped
func New(mappings ...Mapping) *Normalizer {
	return &Normalizer{mappings: mappings}
}

// Canonical looks up value in m, returning the canonical form and whether it was recognised
func (m Mapping) Canonical(value string) (string, bool) {
	canonical, ok := m.Synonyms[strings.ToLower(strings.TrimSpace(value))]
	return canonical, ok
}

// Apply returns a normalized copy of t and the audit of the pass; t is not modified
func (n *Normalizer) Apply(t *table.Table) (*table.Table, Audit) {
	out := t.Clone()
	var audit Audit

	for _, m := range n.mappings {
		idx := out.ColumnIndex(m.Column)
		if idx < 0 {
			continue
		}
		counts := make(map[string]int)
		for _, row := range out.Rows {
			if idx >= len(row) || table.IsEmptyCell(row[idx]) {
				continue
			}
			canonical, ok := m.Canonical(row[idx])
			if !ok {
				counts[row[idx]]++
				continue
			}
			if row[idx] != canonical {
				row[idx] = canonical
				audit.Rewritten++
			}
		}
		for value, count := range counts {
			audit.Unmapped = append(audit.Unmapped, Unmapped{Column: m.Column, Value: value, Count: count})
		}
	}

	sort.Slice(audit.Unmapped, func(i, j int) bool {
		if audit.Unmapped[i].Column != audit.Unmapped[j].Column {
			return audit.Unmapped[i].Column < audit.Unmapped[j].Column
		}
		return audit.Unmapped[i].Value < audit.Unmapped[j].Value
	})
	return out, audit
}
