// Package report turns computed insights into the bandwidth report document.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"ncclens/internal/insights"
)

// Title heads every page of the report
const Title = "NCC Report - Bandwidth Insights"

// Section is one titled block of report lines
type Section struct {
	Title string
	Lines []Line
}

// Line is a label/value pair; an empty Value renders the label alone
type Line struct {
	Label  string
	Value  string
	Indent bool
}

// Document is the ordered report ready for rendering
type Document struct {
	Title    string
	Sections []Section
}

// Build lays out the fixed report sections: network, client type, region, mean,
// top states, status.
func Build(ins *insights.Insights) *Document {
	doc := &Document{Title: Title}

	doc.Sections = append(doc.Sections, groupSection("Total Bandwidth allocated by Network Type", ins.ByNetwork))

	doc.Sections = append(doc.Sections, Section{
		Title: "Total Bandwidth by Client Type",
		Lines: []Line{
			{Label: "Total Bandwidth allocated to Corporate Clients", Value: Mbps(ins.CorporateBandwidth)},
			{Label: "Total Bandwidth allocated to Retail Clients", Value: Mbps(ins.RetailBandwidth)},
		},
	})

	doc.Sections = append(doc.Sections, groupSection("Total Bandwidth consumed per Region", ins.ByRegion))

	mean := "n/a"
	if ins.MeanValid {
		mean = fmt.Sprintf("%.2f Mbps", ins.Mean)
	}
	meanLines := []Line{{Label: "Average Bandwidth per Client", Value: mean}}
	if ins.ExcludedCount > 0 {
		meanLines = append(meanLines, Line{
			Label: fmt.Sprintf("%d of %d record(s) had no numeric bandwidth and were excluded", ins.ExcludedCount, ins.RowCount),
		})
	}
	doc.Sections = append(doc.Sections, Section{Title: "Average Bandwidth per Client", Lines: meanLines})

	doc.Sections = append(doc.Sections, groupSection(
		fmt.Sprintf("Top %d States with Highest Bandwidth Allocation", insights.TopStatesLimit), ins.TopStates))

	doc.Sections = append(doc.Sections, Section{
		Title: "Active vs. Inactive Bandwidth Consumption",
		Lines: []Line{
			{Label: "Active Customers", Value: Mbps(ins.ActiveBandwidth), Indent: true},
			{Label: "Inactive Customers", Value: Mbps(ins.InactiveBandwidth), Indent: true},
		},
	})

	return doc
}

func groupSection(title string, groups []insights.GroupTotal) Section {
	s := Section{Title: title}
	for _, g := range groups {
		s.Lines = append(s.Lines, Line{Label: g.Key, Value: Mbps(g.Total), Indent: true})
	}
	if len(groups) == 0 {
		s.Lines = append(s.Lines, Line{Label: "No data", Indent: true})
	}
	return s
}

// Mbps formats a bandwidth total the way the report prints it
func Mbps(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " Mbps"
}

// Text renders the document as plain text, one line per entry
func (d *Document) Text() string {
	var b strings.Builder
	b.WriteString(d.Title + "\n\n")
	for _, s := range d.Sections {
		b.WriteString(s.Title + ":\n")
		for _, l := range s.Lines {
			if l.Indent {
				b.WriteString("  ")
			}
			b.WriteString(l.text() + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders the document as Markdown
func (d *Document) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	for _, s := range d.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		for _, l := range s.Lines {
			if l.Value == "" {
				fmt.Fprintf(&b, "- %s\n", escapeMarkdown(l.Label))
				continue
			}
			fmt.Fprintf(&b, "- %s: **%s**\n", escapeMarkdown(l.Label), l.Value)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (l Line) text() string {
	if l.Value == "" {
		return l.Label
	}
	return l.Label + ": " + l.Value
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`", `[`, `\[`, `]`, `\]`, `<`, `&lt;`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
