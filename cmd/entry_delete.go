package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	entryDeleteID   int64
	entryDeleteUser int64
)

var entryDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a timesheet entry",
	Example: `
  # Delete entry 12 owned by user 1
  weeklog entry delete --as 1 --id 12
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireActingUser(entryDeleteUser); err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.service.DeleteEntry(context.Background(), entryDeleteID, entryDeleteUser); err != nil {
			return fmt.Errorf("delete entry: %s", describeFailure(err))
		}

		fmt.Printf("Entry deleted. ID: %d\n", entryDeleteID)
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryDeleteCmd)

	entryDeleteCmd.Flags().Int64Var(&entryDeleteUser, "as", 0, "Acting user ID")
	entryDeleteCmd.Flags().Int64Var(&entryDeleteID, "id", 0, "Entry ID")
	_ = entryDeleteCmd.MarkFlagRequired("as")
	_ = entryDeleteCmd.MarkFlagRequired("id")
}
