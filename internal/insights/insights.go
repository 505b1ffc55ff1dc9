// Package insights computes the bandwidth aggregates consumed by the report and the dashboard.
package insights

import (
	"fmt"
	"sort"
	"strings"

	"ncclens/domain/table"
	"ncclens/internal/coerce"
	"ncclens/internal/config"
	"ncclens/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// TopStatesLimit is the number of states in the top-N section
const TopStatesLimit = 5

// GroupTotal is the bandwidth summed over one group. Count includes rows whose
// bandwidth was not numeric; Total only covers the numeric ones.
type GroupTotal struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Summary describes the distribution of numeric bandwidth values
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Insights is the full aggregate view of one merged table
type Insights struct {
	RowCount     int `json:"row_count"`
	NumericCount int `json:"numeric_count"`
	// ExcludedCount counts rows whose bandwidth was missing or not a number
	ExcludedCount int `json:"excluded_count"`

	TotalBandwidth     float64      `json:"total_bandwidth"`
	ByNetwork          []GroupTotal `json:"by_network"`
	ByClientType       []GroupTotal `json:"by_client_type"`
	CorporateBandwidth float64      `json:"corporate_bandwidth"`
	RetailBandwidth    float64      `json:"retail_bandwidth"`
	ByRegion           []GroupTotal `json:"by_region"`
	TopStates          []GroupTotal `json:"top_states"`
	ByStatus           []GroupTotal `json:"by_status"`
	ActiveBandwidth    float64      `json:"active_bandwidth"`
	InactiveBandwidth  float64      `json:"inactive_bandwidth"`

	// Mean is the average bandwidth per client; MeanValid is false when no value was numeric
	Mean      float64  `json:"mean"`
	MeanValid bool     `json:"mean_valid"`
	Summary   *Summary `json:"summary,omitempty"`
}

// RequireColumns reports the configured columns missing from t as a MALFORMED_DATA error
func RequireColumns(t *table.Table, cols config.ColumnConfig) error {
	var missing []string
	for _, name := range []string{cols.NetworkType, cols.ClientType, cols.Region, cols.State, cols.Status, cols.Bandwidth} {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.MalformedData(fmt.Sprintf("data file is missing required columns: %s", strings.Join(missing, ", ")), nil)
	}
	return nil
}

// Compute aggregates t. Bandwidth values that do not parse as numbers are
// excluded from every sum and from the mean, but their rows still count.
func Compute(t *table.Table, cols config.ColumnConfig) (*Insights, error) {
	if err := RequireColumns(t, cols); err != nil {
		return nil, err
	}

	values, valid := coerce.Floats(t.Column(cols.Bandwidth))
	var numeric []float64
	for i, ok := range valid {
		if ok {
			numeric = append(numeric, values[i])
		}
	}

	ins := &Insights{
		RowCount:       t.Len(),
		NumericCount:   len(numeric),
		ExcludedCount:  t.Len() - len(numeric),
		TotalBandwidth: floats.Sum(numeric),
		ByNetwork:      groupTotals(t.Column(cols.NetworkType), values, valid),
		ByClientType:   groupTotals(t.Column(cols.ClientType), values, valid),
		ByRegion:       groupTotals(t.Column(cols.Region), values, valid),
		ByStatus:       groupTotals(t.Column(cols.Status), values, valid),
	}
	ins.TopStates = TopN(groupTotals(t.Column(cols.State), values, valid), TopStatesLimit)
	ins.CorporateBandwidth = Lookup(ins.ByClientType, "Corporate").Total
	ins.RetailBandwidth = Lookup(ins.ByClientType, "Retail").Total
	ins.ActiveBandwidth = Lookup(ins.ByStatus, "Connected").Total
	ins.InactiveBandwidth = Lookup(ins.ByStatus, "Disconnected").Total

	if len(numeric) > 0 {
		data := stats.Float64Data(numeric)
		ins.Mean, _ = data.Mean()
		ins.MeanValid = true
		ins.Summary = summarize(data)
	}

	return ins, nil
}

// groupTotals sums numeric values per trimmed key, skipping rows with an empty key; groups are sorted by key
func groupTotals(keys []string, values []float64, valid []bool) []GroupTotal {
	members := make(map[string][]float64)
	counts := make(map[string]int)
	for i, raw := range keys {
		key := strings.TrimSpace(raw)
		if key == "" {
			continue
		}
		counts[key]++
		if valid[i] {
			members[key] = append(members[key], values[i])
		}
	}

	groups := make([]GroupTotal, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, GroupTotal{Key: key, Total: floats.Sum(members[key]), Count: count})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// TopN returns the n groups with the largest totals, ties broken by key
func TopN(groups []GroupTotal, n int) []GroupTotal {
	sorted := append([]GroupTotal(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Total != sorted[j].Total {
			return sorted[i].Total > sorted[j].Total
		}
		return sorted[i].Key < sorted[j].Key
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Lookup returns the group with key, or a zero group
func Lookup(groups []GroupTotal, key string) GroupTotal {
	for _, g := range groups {
		if g.Key == key {
			return g
		}
	}
	return GroupTotal{Key: key}
}

func summarize(data stats.Float64Data) *Summary {
	s := &Summary{}
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.Median, _ = data.Median()
	s.StdDev, _ = data.StandardDeviation()
	return s
}
