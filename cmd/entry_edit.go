package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"weeklog/timesheet"
)

var (
	entryEditID    int64
	entryEditFlags entryFlags
)

var entryEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a timesheet entry",
	Long: `Change project, date, hours, or description of an existing entry.

Only the flags given are changed; everything else keeps its stored value.`,
	Example: `
  # Correct the hours of entry 12
  weeklog entry edit --as 1 --id 12 --hours 6.5

  # Move entry 12 to another project and day
  weeklog entry edit --as 1 --id 12 --project 2 --date 2026-03-03
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := entryEditFlags
		if err := requireActingUser(f.actingUser); err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		current, found, err := a.service.EntryByID(ctx, entryEditID)
		if err != nil {
			return fmt.Errorf("edit entry: %s", describeFailure(err))
		}
		if !found {
			return fmt.Errorf("edit entry: %s", describeFailure(timesheet.Fail(timesheet.KindEntryNotFound)))
		}

		updated, err := applyEntryFlags(current, f, cmd.Flags(), time.Now())
		if err != nil {
			return err
		}
		if err := a.service.EditEntry(ctx, updated, f.actingUser); err != nil {
			return fmt.Errorf("edit entry: %s", describeFailure(err))
		}

		fmt.Printf("Entry updated. ID: %d\n", updated.ID)
		return nil
	},
}

// applyEntryFlags overlays the flags that were set on the stored entry.
func applyEntryFlags(current timesheet.Entry, f entryFlags, flags *pflag.FlagSet, now time.Time) (timesheet.Entry, error) {
	updated := current
	if flags.Changed("user") {
		updated.UserID = f.userID
	}
	if flags.Changed("project") {
		updated.ProjectID = f.projectID
	}
	if flags.Changed("date") {
		date, err := parseEntryDate(f.date, now)
		if err != nil {
			return timesheet.Entry{}, err
		}
		updated.Date = date
	}
	if flags.Changed("hours") {
		hours, err := parseEntryHours(f.hours)
		if err != nil {
			return timesheet.Entry{}, err
		}
		updated.Hours = hours
	}
	if flags.Changed("description") {
		updated.Description = f.description
	}
	return updated, nil
}

func init() {
	entryCmd.AddCommand(entryEditCmd)

	entryEditCmd.Flags().Int64Var(&entryEditID, "id", 0, "Entry ID")
	entryEditFlags.bind(entryEditCmd)
	_ = entryEditCmd.MarkFlagRequired("as")
	_ = entryEditCmd.MarkFlagRequired("id")
}
