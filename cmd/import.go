package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"weeklog/importer"
)

var (
	importInputs     []string
	importFormat     string
	importActingUser int64
	importMaxErrors  int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/TSV/Excel timesheet rows through the entry rules",
	Long: `Read source files and add every row as a timesheet entry on behalf of --as.

Each row runs through the same checks as "entry add". Rejected rows are reported and
skipped; a storage failure aborts the import.

Recognized columns (case-insensitive): date, project (or projectid), hours, and
optionally user (or userid) and description. When --format is omitted, the format is
inferred from each input file extension.`,
	Example: `
  # Import one CSV file for user 1
  weeklog import -i ./week.csv --as 1

  # Import several files, forcing the Excel reader
  weeklog import -i ./jan.xlsx -i ./feb.xlsx --format excel --as 1

  # Import a tab-separated export
  weeklog import -i ./export.tsv --as 1
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireActingUser(importActingUser); err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := importer.Run(context.Background(), a.service, importInputs, importFormat, importActingUser)
		if result != nil {
			printImportResult(os.Stdout, result, importMaxErrors)
		}
		return err
	},
}

func printImportResult(w io.Writer, result *importer.Result, maxErrors int) {
	fmt.Fprintf(w, "Import completed. Files: %d, Rows read: %d, Rows added: %d, Rows skipped: %d, Rows rejected: %d\n",
		result.FilesProcessed,
		result.RowsRead,
		result.RowsAdded,
		result.RowsSkipped,
		len(result.Rejected),
	)
	for i, failure := range result.Rejected {
		if maxErrors >= 0 && i >= maxErrors {
			fmt.Fprintf(w, "  ... %d more\n", len(result.Rejected)-i)
			break
		}
		fmt.Fprintf(w, "  %s\n", failure)
	}
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|tsv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().Int64Var(&importActingUser, "as", 0, "Acting user ID")
	importCmd.Flags().IntVar(&importMaxErrors, "max-errors", 20, "Maximum rejected rows to print (-1 for all)")

	_ = importCmd.MarkFlagRequired("input")
	_ = importCmd.MarkFlagRequired("as")
}
