package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"weeklog/internal/timeutil"
	"weeklog/timesheet"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Add, edit, or delete timesheet entries",
	Long: `Mutate timesheet entries on behalf of an acting user (--as).

Every change is validated: users may only touch their own entries, the project must be
assigned to the user, the date must not be in the future, hours must be within the
configured bounds, and the description must not exceed the configured length.`,
}

func init() {
	rootCmd.AddCommand(entryCmd)
}

// entryFlags holds the mutable fields shared by entry add and entry edit.
type entryFlags struct {
	actingUser  int64
	userID      int64
	projectID   int64
	date        string
	hours       string
	description string
}

func (f *entryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.actingUser, "as", 0, "Acting user ID")
	cmd.Flags().Int64Var(&f.userID, "user", 0, "Owner of the entry (default: acting user)")
	cmd.Flags().Int64Var(&f.projectID, "project", 0, "Project ID")
	cmd.Flags().StringVar(&f.date, "date", "", "Entry date, format YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&f.hours, "hours", "", "Hours worked, e.g. 7.5")
	cmd.Flags().StringVar(&f.description, "description", "", "Optional description")
}

func parseEntryDate(raw string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return timeutil.StartOfDay(now), nil
	}
	date, err := timeutil.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", raw)
	}
	return date, nil
}

func parseEntryHours(raw string) (decimal.Decimal, error) {
	hours, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid hours %q", raw)
	}
	return hours, nil
}

func describeFailure(err error) string {
	kind := timesheet.KindOf(err)
	if kind == timesheet.KindUnknown {
		return err.Error()
	}
	return fmt.Sprintf("%s [%s]", err.Error(), kind)
}
