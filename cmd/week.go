package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"weeklog/internal/timeutil"
	"weeklog/output"
	"weeklog/timesheet"
)

var (
	weekUser   int64
	weekDate   string
	weekOffset int
	weekOutput string
	weekFormat string
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show a user's entries and project totals for one week",
	Long: `Print the Monday..Sunday week containing --date (default: today).

Use --offset to step backwards or forwards by whole weeks. With --output the weekly
summary is also written as CSV or Excel.`,
	Example: `
  # Current week of user 1
  weeklog week --user 1

  # Previous week
  weeklog week --user 1 --offset -1

  # Week of a given day, also written to Excel
  weeklog week --user 1 --date 2026-03-04 --output ./week.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if weekUser <= 0 {
			return fmt.Errorf("--user is required and must be > 0")
		}
		week, err := resolveWeek(weekDate, weekOffset, time.Now())
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		list := a.service.EntriesForUserAndWeek(ctx, weekUser, week.Start)
		projects, err := a.store.ListProjects(ctx)
		if err != nil {
			return err
		}

		summary := output.BuildWeeklySummary(week, list, projects)
		printWeek(os.Stdout, weekUser, summary, list, output.ProjectNames(projects))

		if strings.TrimSpace(weekOutput) != "" {
			format := weekFormat
			if strings.TrimSpace(format) == "" {
				format = detectExportFormat(weekOutput)
			}
			if err := output.WriteWeeklySummary(weekOutput, format, summary); err != nil {
				return err
			}
			fmt.Printf("Summary written. Format: %s, File: %s\n", format, weekOutput)
		}
		return nil
	},
}

// resolveWeek returns the week containing date (or now) shifted by offset weeks.
func resolveWeek(date string, offset int, now time.Time) (timeutil.Range, error) {
	anchor := timeutil.StartOfDay(now)
	if strings.TrimSpace(date) != "" {
		parsed, err := timeutil.ParseDate(date)
		if err != nil {
			return timeutil.Range{}, fmt.Errorf("invalid --date value %q (expected YYYY-MM-DD)", date)
		}
		anchor = parsed
	}
	return timeutil.WeekRangeOf(anchor.AddDate(0, 0, 7*offset)), nil
}

func printWeek(w io.Writer, userID int64, summary output.WeeklySummary, list []timesheet.Entry, names map[int64]string) {
	fmt.Fprintf(w, "Week %s .. %s, user %d\n",
		timeutil.FormatDate(summary.Week.Start),
		timeutil.FormatDate(summary.Week.End),
		userID,
	)
	if len(list) == 0 {
		fmt.Fprintln(w, "No entries.")
		return
	}

	fmt.Fprintln(w)
	for _, entry := range list {
		name, ok := names[entry.ProjectID]
		if !ok {
			name = output.UnknownProject
		}
		line := fmt.Sprintf("  #%-5d %s %s  %-20s %6s h", entry.ID, entry.Date.Format("Mon"), timeutil.FormatDate(entry.Date), name, entry.Hours.StringFixed(2))
		if entry.Description != "" {
			line += "  " + entry.Description
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Per project:")
	for _, total := range summary.Projects {
		fmt.Fprintf(w, "  %-28s %6s h\n", total.Project, total.Hours.StringFixed(2))
	}
	fmt.Fprintln(w, "Per day:")
	for _, day := range summary.Days {
		fmt.Fprintf(w, "  %s %s %15s %6s h\n", day.Date.Format("Mon"), timeutil.FormatDate(day.Date), "", day.Hours.StringFixed(2))
	}
	fmt.Fprintf(w, "Total: %s h in %d entries\n", summary.Total.StringFixed(2), summary.Entries)
}

func init() {
	rootCmd.AddCommand(weekCmd)

	weekCmd.Flags().Int64Var(&weekUser, "user", 0, "User ID")
	weekCmd.Flags().StringVar(&weekDate, "date", "", "Any day of the week, format YYYY-MM-DD (default: today)")
	weekCmd.Flags().IntVar(&weekOffset, "offset", 0, "Shift by whole weeks, e.g. -1 for the previous week")
	weekCmd.Flags().StringVarP(&weekOutput, "output", "o", "", "Optional summary output file")
	weekCmd.Flags().StringVarP(&weekFormat, "format", "f", "", "Summary format: csv|excel (optional, inferred from output extension)")

	_ = weekCmd.MarkFlagRequired("user")
}
