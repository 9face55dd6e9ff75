package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"weeklog/output"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportUser   int64
	exportDate   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export timesheet entries to CSV/Excel",
	Long: `Export timesheet entries from the configured store.

Modes:
- raw: export every stored entry, one row each
- weekly: export one user's week as per-project, per-day and total rows

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export all entries to CSV
  weeklog export --mode raw --output ./entries.csv

  # Export all entries to Excel
  weeklog export --mode raw --output ./entries.xlsx

  # Export the current week of user 2
  weeklog export --mode weekly --user 2 --output ./week.csv

  # Force Excel format independent of extension
  weeklog export --mode weekly --user 2 --date 2026-03-04 --format excel --output ./week.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		if mode != "" && mode != "raw" && mode != "weekly" {
			return fmt.Errorf("unsupported export mode: %s (supported: raw, weekly)", exportMode)
		}
		if mode == "weekly" && exportUser <= 0 {
			return fmt.Errorf("--user is required for weekly export")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		projects, err := a.store.ListProjects(ctx)
		if err != nil {
			return err
		}

		switch mode {
		case "", "raw":
			list, err := a.store.ListEntries(ctx)
			if err != nil {
				return err
			}
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, list, output.ProjectNames(projects)); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(list), format, exportOutput)
		case "weekly":
			week, err := resolveWeek(exportDate, 0, time.Now())
			if err != nil {
				return err
			}
			list := a.service.EntriesForUserAndWeek(ctx, exportUser, week.Start)
			summary := output.BuildWeeklySummary(week, list, projects)
			if err := output.WriteWeeklySummary(exportOutput, format, summary); err != nil {
				return err
			}
			fmt.Printf("Export completed. Entries: %d, Projects: %d, Mode: weekly, Format: %s, File: %s\n",
				summary.Entries, len(summary.Projects), format, exportOutput)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|weekly")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().Int64Var(&exportUser, "user", 0, "User ID (weekly mode)")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Any day of the exported week, format YYYY-MM-DD (weekly mode, default: today)")

	_ = exportCmd.MarkFlagRequired("output")
}
