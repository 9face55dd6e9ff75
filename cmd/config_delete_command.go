package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weeklog/config"
)

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active weeklog config file.",
	Long: `Delete the config file weeklog loaded (or the one given with --configFile).

Only the settings file is removed; entries stay in the store. Afterwards weeklog falls
back to its defaults: SQLite at ./weeklog.db and hours between 0.01 and 24. Use
"weeklog delete" to remove the SQLite database itself.`,
	Example: `
  # Delete the active config
  weeklog config delete

  # Delete a team config
  weeklog --configFile ./team.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := strings.TrimSpace(cfgFile)
		if path == "" {
			path = viper.ConfigFileUsed()
		}
		return deleteConfigFile(os.Stdout, path)
	},
}

// deleteConfigFile removes path and reports where the data it pointed at lives.
func deleteConfigFile(w io.Writer, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no configuration file found")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read configuration file: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete configuration file: %w", err)
	}
	fmt.Fprintf(w, "Configuration file deleted: %s\n", path)

	if cfg, err := config.ValidateYAMLContent(content); err == nil {
		fmt.Fprintf(w, "Entries remain in %s\n", describeStorage(cfg.Storage))
	}
	fmt.Fprintf(w, "Defaults now apply: sqlite at %s\n", config.DefaultStoragePath)
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}
