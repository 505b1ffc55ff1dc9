package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ncclens/internal/errors"
	"ncclens/internal/insights"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInsights() *insights.Insights {
	return &insights.Insights{
		RowCount:           3,
		NumericCount:       2,
		ExcludedCount:      1,
		TotalBandwidth:     150,
		ByNetwork:          []insights.GroupTotal{{Key: "Internet", Total: 50, Count: 2}, {Key: "WAN", Total: 100, Count: 1}},
		CorporateBandwidth: 100,
		RetailBandwidth:    50,
		ByRegion:           []insights.GroupTotal{{Key: "South West", Total: 150, Count: 3}},
		TopStates:          []insights.GroupTotal{{Key: "Lagos", Total: 100, Count: 1}, {Key: "Oyo", Total: 50, Count: 2}},
		ActiveBandwidth:    100,
		InactiveBandwidth:  50,
		Mean:               75,
		MeanValid:          true,
	}
}

func TestBuild_SectionOrder(t *testing.T) {
	doc := Build(sampleInsights())

	require.Len(t, doc.Sections, 6)
	titles := make([]string, len(doc.Sections))
	for i, s := range doc.Sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{
		"Total Bandwidth allocated by Network Type",
		"Total Bandwidth by Client Type",
		"Total Bandwidth consumed per Region",
		"Average Bandwidth per Client",
		"Top 5 States with Highest Bandwidth Allocation",
		"Active vs. Inactive Bandwidth Consumption",
	}, titles)
	assert.Equal(t, Title, doc.Title)
}

func TestText(t *testing.T) {
	text := Build(sampleInsights()).Text()

	assert.Contains(t, text, "  WAN: 100 Mbps")
	assert.Contains(t, text, "Total Bandwidth allocated to Corporate Clients: 100 Mbps")
	assert.Contains(t, text, "Average Bandwidth per Client: 75.00 Mbps")
	assert.Contains(t, text, "1 of 3 record(s) had no numeric bandwidth and were excluded")
	assert.Contains(t, text, "  Inactive Customers: 50 Mbps")
}

func TestBuild_MeanUnavailable(t *testing.T) {
	ins := sampleInsights()
	ins.MeanValid = false
	ins.ByRegion = nil
	text := Build(ins).Text()
	assert.Contains(t, text, "Average Bandwidth per Client: n/a")
	assert.Contains(t, text, "Total Bandwidth consumed per Region:\n  No data")
}

func TestMbps(t *testing.T) {
	assert.Equal(t, "100 Mbps", Mbps(100))
	assert.Equal(t, "12.5 Mbps", Mbps(12.5))
}

func TestMarkdownAndHTML(t *testing.T) {
	ins := sampleInsights()
	ins.ByRegion = []insights.GroupTotal{{Key: "<script>*x*", Total: 1, Count: 1}}
	doc := Build(ins)

	md := doc.Markdown()
	assert.True(t, strings.HasPrefix(md, "# NCC Report - Bandwidth Insights"))
	assert.Contains(t, md, "## Top 5 States with Highest Bandwidth Allocation")
	assert.Contains(t, md, "- Lagos: **100 Mbps**")

	html := string(doc.HTML())
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>100 Mbps</strong>")
	assert.NotContains(t, html, "<script>")
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(sampleInsights()).WritePDF(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "insights.md")

	require.NoError(t, Build(sampleInsights()).WriteFile(path, FormatMarkdown))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Average Bandwidth per Client")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPDF, "PDF": FormatPDF, "markdown": FormatMarkdown, "htm": FormatHTML, "txt": FormatText} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("docx")
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}
