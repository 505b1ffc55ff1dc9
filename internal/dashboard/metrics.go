package dashboard

import (
	"sort"
	"strings"

	"ncclens/domain/table"
	"ncclens/internal/coerce"
	"ncclens/internal/config"
	"ncclens/internal/insights"
	"ncclens/internal/normalize"

	"gonum.org/v1/gonum/floats"
)

// TopStatesByCustomers is the number of states in the customer-count ranking
const TopStatesByCustomers = 10

// EmptyWarning is shown when a filter matches no rows
const EmptyWarning = "No data matches current filters. Adjust your selections."

// Count is a number of rows sharing a key
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// RegionClientTotal is the bandwidth of one region and client type pair
type RegionClientTotal struct {
	Region     string  `json:"region"`
	ClientType string  `json:"client_type"`
	Total      float64 `json:"total"`
}

// Metrics is everything the dashboard shows for one filter
type Metrics struct {
	Filter            Filter              `json:"filter"`
	RowCount          int                 `json:"row_count"`
	TotalRows         int                 `json:"total_rows"`
	Warning           string              `json:"warning,omitempty"`
	TotalBandwidth    float64             `json:"total_bandwidth"`
	ActiveConnections int                 `json:"active_connections"`
	EnterpriseClients int                 `json:"enterprise_clients"`
	CustomersByRegion []Count             `json:"customers_by_region"`
	TopStates         []Count             `json:"top_states"`
	StatusCounts      []Count             `json:"status_counts"`
	RegionClient      []RegionClientTotal `json:"region_client"`
	Insights          *insights.Insights  `json:"insights,omitempty"`
}

// Compute applies f to the dataset and aggregates the remaining rows
func Compute(ds *Dataset, cols config.ColumnConfig, f Filter) (*Metrics, error) {
	filtered := f.Apply(ds.Table, cols)

	m := &Metrics{
		Filter:    f,
		RowCount:  filtered.Len(),
		TotalRows: ds.Table.Len(),
	}
	if filtered.Len() == 0 {
		m.Warning = EmptyWarning
		return m, nil
	}

	ins, err := insights.Compute(filtered, cols)
	if err != nil {
		return nil, err
	}
	m.Insights = ins
	m.TotalBandwidth = ins.TotalBandwidth

	statuses := filtered.Column(cols.Status)
	clients := filtered.Column(cols.ClientType)
	for i := range statuses {
		if strings.TrimSpace(statuses[i]) == normalize.StatusConnected {
			m.ActiveConnections++
		}
		if strings.TrimSpace(clients[i]) == normalize.ClientCorporate {
			m.EnterpriseClients++
		}
	}

	m.CustomersByRegion = countBy(filtered.Column(cols.Region))
	m.StatusCounts = countBy(statuses)
	m.TopStates = topCounts(countBy(filtered.Column(cols.State)), TopStatesByCustomers)
	m.RegionClient = regionClientTotals(filtered, cols)
	return m, nil
}

// countBy counts rows per trimmed non-empty key, sorted by key
func countBy(keys []string) []Count {
	counts := make(map[string]int)
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k != "" {
			counts[k]++
		}
	}
	out := make([]Count, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func topCounts(counts []Count, n int) []Count {
	sorted := append([]Count(nil), counts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Key < sorted[j].Key
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func regionClientTotals(t *table.Table, cols config.ColumnConfig) []RegionClientTotal {
	type pair struct{ region, client string }

	regions := t.Column(cols.Region)
	clients := t.Column(cols.ClientType)
	values, valid := coerce.Floats(t.Column(cols.Bandwidth))

	members := make(map[pair][]float64)
	for i := range regions {
		p := pair{strings.TrimSpace(regions[i]), strings.TrimSpace(clients[i])}
		if p.region == "" || p.client == "" {
			continue
		}
		if _, ok := members[p]; !ok {
			members[p] = nil
		}
		if valid[i] {
			members[p] = append(members[p], values[i])
		}
	}

	out := make([]RegionClientTotal, 0, len(members))
	for p, vals := range members {
		out = append(out, RegionClientTotal{Region: p.region, ClientType: p.client, Total: floats.Sum(vals)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].ClientType < out[j].ClientType
	})
	return out
}
