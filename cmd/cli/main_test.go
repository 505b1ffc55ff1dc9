package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ncclens/domain/table"
	"ncclens/internal"
	"ncclens/internal/artifact"
	"ncclens/internal/config"
	"ncclens/internal/errors"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// useConfig installs c as the loaded configuration for the duration of the test
func useConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prevCfg, prevLogger := cfg, logger
	cfg, logger = c, internal.NewNopLogger()
	t.Cleanup(func() { cfg, logger = prevCfg, prevLogger })
}

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(new(strings.Builder))
	cmd.SetErr(new(strings.Builder))
	return cmd.Execute()
}

func writeClientWorkbook(t *testing.T, sheet string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	rows := [][]interface{}{
		{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)"},
		{7, "Corporate", 100},
		{8, "Corporate", 50},
		{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)"},
		{9, "Retail", 10},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "clients.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestMergeCmd_FlagsOverrideConfig(t *testing.T) {
	workbook := writeClientWorkbook(t, "Clients")
	dir := t.TempDir()

	newCfg := func() *config.Config {
		c := config.Default()
		c.Ingest.Workbook = workbook
		c.Ingest.Sheet = "Clients"
		c.Data.MergedFile = filepath.Join(dir, "from_env.csv")
		return c
	}

	tests := []struct {
		name    string
		args    []string
		output  string
		columns []string
		serial  []string
	}{
		{
			name:    "config only",
			output:  "from_env.csv",
			columns: []string{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)", "origin"},
			serial:  []string{"1", "2", "3"},
		},
		{
			name:    "output flag",
			args:    []string{"--output", filepath.Join(dir, "from_flag.csv")},
			output:  "from_flag.csv",
			columns: []string{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)", "origin"},
			serial:  []string{"1", "2", "3"},
		},
		{
			name:    "empty sequence column keeps serials",
			args:    []string{"--output", filepath.Join(dir, "raw.csv"), "--sequence-column", ""},
			output:  "raw.csv",
			columns: []string{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)", "origin"},
			serial:  []string{"7", "8", "9"},
		},
		{
			name:    "no origin",
			args:    []string{"--output", filepath.Join(dir, "plain.csv"), "--no-origin"},
			output:  "plain.csv",
			columns: []string{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)"},
			serial:  []string{"1", "2", "3"},
		},
		{
			name:    "renamed origin column",
			args:    []string{"--output", filepath.Join(dir, "segment.csv"), "--origin-column", "segment"},
			output:  "segment.csv",
			columns: []string{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)", "segment"},
			serial:  []string{"1", "2", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useConfig(t, newCfg())
			require.NoError(t, execute(newMergeCmd(), tt.args...))

			got, err := artifact.Read(filepath.Join(dir, tt.output))
			require.NoError(t, err)
			assert.Equal(t, tt.columns, got.Columns)
			assert.Equal(t, tt.serial, got.Column("S/N"))
		})
	}

	t.Run("sheet flag wins over config", func(t *testing.T) {
		useConfig(t, newCfg())
		err := execute(newMergeCmd(), "--sheet", "Retail Only")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeSheetNotFound))
	})

	t.Run("no workbook anywhere", func(t *testing.T) {
		c := newCfg()
		c.Ingest.Workbook = ""
		useConfig(t, c)
		err := execute(newMergeCmd())
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
	})
}

func writeMergedData(t *testing.T) string {
	t.Helper()
	cols := config.DefaultColumns()
	path := filepath.Join(t.TempDir(), "merged_clients.csv")
	require.NoError(t, artifact.Write(path, &table.Table{
		Columns: []string{"S/N", cols.NetworkType, cols.ClientType, cols.Region, cols.State, cols.Status, cols.Bandwidth},
		Rows: [][]string{
			{"1", "WAN", "Corporate", "South West", "Lagos", "Active", "100"},
			{"2", "Internet", "Retail", "North Central", "FCT", "Inactive", "20"},
		},
	}))
	return path
}

func TestReportCmd_FormatSelection(t *testing.T) {
	data := writeMergedData(t)
	dir := t.TempDir()

	tests := []struct {
		name   string
		output string
		format string
		prefix string
	}{
		{"markdown from extension", "report.md", "", "# NCC Report - Bandwidth Insights"},
		{"html from extension", "report.html", "", "<h1"},
		{"text from extension", "report.txt", "", "NCC Report - Bandwidth Insights\n"},
		{"pdf from extension", "report.pdf", "", "%PDF"},
		{"pdf without extension", "report", "", "%PDF"},
		{"format flag beats extension", "notes.md", "txt", "NCC Report - Bandwidth Insights\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useConfig(t, config.Default())
			output := filepath.Join(dir, tt.output)
			args := []string{"--data", data, "--output", output}
			if tt.format != "" {
				args = append(args, "--format", tt.format)
			}
			require.NoError(t, execute(newReportCmd(), args...))

			content, err := os.ReadFile(output)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(content), tt.prefix), "got %.40q", content)
		})
	}

	t.Run("config paths used when flags are absent", func(t *testing.T) {
		c := config.Default()
		c.Data.MergedFile = data
		c.Data.ReportFile = filepath.Join(dir, "configured.md")
		useConfig(t, c)
		require.NoError(t, execute(newReportCmd()))
		assert.FileExists(t, c.Data.ReportFile)
	})

	t.Run("unknown extension", func(t *testing.T) {
		useConfig(t, config.Default())
		err := execute(newReportCmd(), "--data", data, "--output", filepath.Join(dir, "report.docx"))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
	})
}
