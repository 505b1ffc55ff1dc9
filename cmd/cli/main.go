package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"ncclens/adapters/excel"
	"ncclens/adapters/sqlite"
	"ncclens/app"
	"ncclens/internal"
	"ncclens/internal/artifact"
	"ncclens/internal/config"
	"ncclens/internal/errors"
	"ncclens/internal/insights"
	"ncclens/internal/normalize"
	"ncclens/internal/report"
	"ncclens/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *internal.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ncclens",
		Short:         "Merge the NCC client workbook and report on bandwidth allocation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			logger = internal.NewLogger(internal.ParseLevel(cfg.Log.Level))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(
		newMergeCmd(),
		newReportCmd(),
		newInsightsCmd(),
		newSheetsCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newMergeCmd() *cobra.Command {
	var (
		input, sheet, output, marker string
		markerColumn                 int
		noOrigin                     bool
		originColumn, sequenceColumn string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Split the two-table sheet at its header markers and write the merged CSV",
		Long: `Read one sheet of the workbook, locate the two header rows carrying the marker,
drop fully-empty rows from both segments and write them under the first header
as a single CSV table.

Example: ncclens merge --input data/clients.xlsx --sheet "Corporate and Retail Clients" --output data/merged_clients.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.RequestFromConfig(cfg)
			if cmd.Flags().Changed("input") {
				req.Workbook = input
			}
			if cmd.Flags().Changed("sheet") {
				req.Sheet = sheet
			}
			if cmd.Flags().Changed("output") {
				req.Output = output
			}
			if cmd.Flags().Changed("marker") {
				req.Marker = marker
			}
			if cmd.Flags().Changed("marker-column") {
				req.MarkerColumn = markerColumn
			}
			if noOrigin {
				req.Merge.TagOrigin = false
			}
			if cmd.Flags().Changed("origin-column") {
				req.Merge.OriginColumn = originColumn
			}
			if cmd.Flags().Changed("sequence-column") {
				req.Merge.SequenceColumn = sequenceColumn
			}
			if req.Workbook == "" {
				return errors.InvalidInput("no workbook given; pass --input or set NCC_WORKBOOK")
			}
			return runMerge(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Workbook path (default $NCC_WORKBOOK)")
	cmd.Flags().StringVar(&sheet, "sheet", config.DefaultSheet, "Sheet holding both client tables")
	cmd.Flags().StringVar(&output, "output", "", "Merged CSV path (default $NCC_DATA_FILE)")
	cmd.Flags().StringVar(&marker, "marker", config.DefaultMarker, "Header marker value")
	cmd.Flags().IntVar(&markerColumn, "marker-column", 0, "Zero-based column searched for the marker")
	cmd.Flags().BoolVar(&noOrigin, "no-origin", false, "Do not append the origin column")
	cmd.Flags().StringVar(&originColumn, "origin-column", config.DefaultOriginColumn, "Name of the origin column")
	cmd.Flags().StringVar(&sequenceColumn, "sequence-column", config.DefaultSequenceColumn, "Column renumbered 1..N; empty disables renumbering")

	return cmd
}

func runMerge(ctx context.Context, req app.IngestRequest) error {
	var recorder ports.RunRecorder
	if cfg.Ledger.Path != "" {
		r, err := sqlite.Open(ctx, cfg.Ledger.Path)
		if err != nil {
			logger.Warn("[CLI] run ledger disabled: %v", err)
		} else {
			recorder = r
			defer recorder.Close()
		}
	}

	svc := app.NewIngestService(excel.NewSheetLoader(logger), recorder, logger)
	result, err := svc.Ingest(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Merged %d rows x %d columns into %s\n", result.Merge.RowCount, result.Merge.ColumnCount, result.Output)
	for i, label := range req.Merge.Labels {
		fmt.Printf("  %-10s %d rows\n", label, result.Merge.SegmentRows[i])
	}
	if result.Merge.DroppedRows > 0 {
		fmt.Printf("  dropped %d empty row(s)\n", result.Merge.DroppedRows)
	}
	if len(result.ExtraMarkers) > 0 {
		fmt.Printf("  warning: extra header rows at %v were kept as data\n", result.ExtraMarkers)
	}
	fmt.Printf("Run %s, sha256 %s\n", result.RunID, result.Fingerprint)
	return nil
}

func newReportCmd() *cobra.Command {
	var data, output, format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the bandwidth insights report from the merged CSV",
		Long: `Compute bandwidth insights from the merged CSV and render the report.

The format defaults to the output file extension, falling back to pdf.

Example: ncclens report --data data/merged_clients.csv --output data/insights.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" {
				data = cfg.Data.MergedFile
			}
			if output == "" {
				output = cfg.Data.ReportFile
			}
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			return runReport(data, output, f)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Merged CSV path (default $NCC_DATA_FILE)")
	cmd.Flags().StringVar(&output, "output", "", "Report path (default $NCC_REPORT_FILE)")
	cmd.Flags().StringVar(&format, "format", "", "Report format: pdf, md, html or txt")

	return cmd
}

func runReport(data, output string, format report.Format) error {
	ins, err := loadInsights(data)
	if err != nil {
		return err
	}
	if err := report.Build(ins).WriteFile(output, format); err != nil {
		return err
	}
	logger.Info("[CLI] wrote %s report for %d rows to %s", format, ins.RowCount, output)
	fmt.Printf("Report written to %s\n", output)
	return nil
}

func newInsightsCmd() *cobra.Command {
	var data string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Print bandwidth insights for the merged CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" {
				data = cfg.Data.MergedFile
			}
			ins, err := loadInsights(data)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(ins)
			}
			fmt.Print(report.Build(ins).Text())
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Merged CSV path (default $NCC_DATA_FILE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw aggregates as JSON")

	return cmd
}

// loadInsights reads the artifact, normalizes client type and status, and aggregates
func loadInsights(path string) (*insights.Insights, error) {
	t, err := artifact.Read(path)
	if err != nil {
		return nil, err
	}
	normalized, audit := normalize.New(
		normalize.ClientTypeMapping(cfg.Columns.ClientType),
		normalize.StatusMapping(cfg.Columns.Status),
	).Apply(t)
	for _, u := range audit.Unmapped {
		logger.Warn("[CLI] unmapped %s value %q in %d row(s)", u.Column, u.Value, u.Count)
	}

	ins, err := insights.Compute(normalized, cfg.Columns)
	if err != nil {
		return nil, err
	}
	if ins.ExcludedCount > 0 {
		logger.Warn("[CLI] %d row(s) without a numeric bandwidth were excluded from sums", ins.ExcludedCount)
	}
	return ins, nil
}

func newSheetsCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "List the sheets of a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				input = cfg.Ingest.Workbook
			}
			sheets, err := excel.NewSheetLoader(logger).ListSheets(input)
			if err != nil {
				return err
			}
			for _, s := range sheets {
				fmt.Println(s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Workbook path (default $NCC_WORKBOOK)")
	return cmd
}

func newRunsCmd() *cobra.Command {
	var limit int
	var ledger string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent ingestion runs from the run ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ledger == "" {
				ledger = cfg.Ledger.Path
			}
			if ledger == "" {
				return errors.ConfigInvalid("no run ledger configured; pass --ledger or set NCC_LEDGER_PATH")
			}
			return runRuns(cmd.Context(), ledger, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	cmd.Flags().StringVar(&ledger, "ledger", "", "Run ledger path (default $NCC_LEDGER_PATH)")
	return cmd
}

func runRuns(ctx context.Context, ledger string, limit int) error {
	recorder, err := sqlite.Open(ctx, ledger)
	if err != nil {
		return err
	}
	defer recorder.Close()

	runs, err := recorder.List(ctx, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tID\tSTATUS\tROWS\tSOURCE\tDETAIL")
	for _, r := range runs {
		detail := r.OutputHash
		if len(detail) > 12 {
			detail = detail[:12]
		}
		if r.ErrorCode != "" {
			detail = r.ErrorCode
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.StartedAt.Format(time.RFC3339), r.ID, r.Status, r.RowCount, r.Source, detail)
	}
	return w.Flush()
}
