package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weeklog/config"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write the example weeklog config if none exists.",
	Long: `Write the example configuration: a SQLite store at ./weeklog.db, hours between 0.01
and 24 per entry, descriptions up to 255 characters, duplicates allowed, and the API
on port 8080.

An existing file is never overwritten; its storage and validation settings are shown
instead. Set server.jwt_secret before running "weeklog serve" or "weeklog token".`,
	Example: `
  # Create $HOME/.weeklog.yaml
  weeklog config create

  # Create a team config for a shared PostgreSQL store, then edit storage.dsn
  weeklog --configFile ./team.yaml config create
  weeklog --configFile ./team.yaml config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(os.Stdout)
	},
}

func saveDefaultConfig(w io.Writer) error {
	path, err := configFilePath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	content, created, err := loadOrSeedConfigFile(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(w, "New config file created at: %s\n", path)
	} else {
		fmt.Fprintf(w, "Config file already exists at: %s\n", path)
	}

	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		fmt.Fprintf(w, "Warning: existing config does not validate: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "Storage: %s\n", describeStorage(cfg.Storage))
	fmt.Fprintf(w, "Hours per entry: %s..%s, description up to %d characters, duplicates allowed: %t\n",
		cfg.Validation.MinHours,
		cfg.Validation.MaxHours,
		cfg.Validation.MaxDescriptionLength,
		cfg.Validation.AllowDuplicates,
	)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}
