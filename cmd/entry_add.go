package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"weeklog/timesheet"
)

var entryAddFlags entryFlags

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a timesheet entry",
	Example: `
  # Log 8 hours today on project 1
  weeklog entry add --as 1 --project 1 --hours 8

  # Log hours for a past date with a description
  weeklog entry add --as 1 --project 2 --date 2026-03-02 --hours 7.5 --description "Design review"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := entryAddFlags
		if err := requireActingUser(f.actingUser); err != nil {
			return err
		}
		date, err := parseEntryDate(f.date, time.Now())
		if err != nil {
			return err
		}
		hours, err := parseEntryHours(f.hours)
		if err != nil {
			return err
		}
		owner := f.userID
		if owner == 0 {
			owner = f.actingUser
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.service.AddEntry(context.Background(), timesheet.Entry{
			UserID:      owner,
			ProjectID:   f.projectID,
			Date:        date,
			Hours:       hours,
			Description: f.description,
		}, f.actingUser)
		if err != nil {
			return fmt.Errorf("add entry: %s", describeFailure(err))
		}

		fmt.Printf("Entry added. ID: %d\n", id)
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryAddCmd)

	entryAddFlags.bind(entryAddCmd)
	_ = entryAddCmd.MarkFlagRequired("as")
	_ = entryAddCmd.MarkFlagRequired("project")
	_ = entryAddCmd.MarkFlagRequired("hours")
}
