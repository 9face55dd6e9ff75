package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage weeklog configuration file values.",
	Long: `Create, edit, display, and delete the weeklog configuration file.

The configuration holds:
- storage.driver / storage.path / storage.dsn
- validation.min_hours / max_hours / max_description_length / allow_duplicates
- server.port / jwt_secret / token_ttl
- log.mode`,
	Example: `
  # Create default config in $HOME/.weeklog.yaml
  weeklog config create

  # Show active config and source file
  weeklog config show

  # Open active config in editor (creates example if missing)
  weeklog config edit

  # Delete active config file
  weeklog config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
