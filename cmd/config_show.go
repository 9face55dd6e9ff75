package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weeklog/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Secrets are masked.`,
	Example: `
  # Show active configuration
  weeklog config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		source := viper.ConfigFileUsed()
		if source == "" {
			source = "(defaults)"
		}
		fmt.Println("Config file loaded from:", source)
		printConfig(os.Stdout, cfg)
		return nil
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "%s: %s\n", config.KeyStorageDriver, cfg.Storage.Driver)
	fmt.Fprintf(w, "%s: %s\n", config.KeyStoragePath, cfg.Storage.Path)
	fmt.Fprintf(w, "%s: %s\n", config.KeyStorageDSN, maskSecret(cfg.Storage.DSN))
	fmt.Fprintf(w, "%s: %s\n", config.KeyMinHours, cfg.Validation.MinHours)
	fmt.Fprintf(w, "%s: %s\n", config.KeyMaxHours, cfg.Validation.MaxHours)
	fmt.Fprintf(w, "%s: %d\n", config.KeyMaxDescriptionLength, cfg.Validation.MaxDescriptionLength)
	fmt.Fprintf(w, "%s: %t\n", config.KeyAllowDuplicates, cfg.Validation.AllowDuplicates)
	fmt.Fprintf(w, "%s: %d\n", config.KeyServerPort, cfg.Server.Port)
	fmt.Fprintf(w, "%s: %s\n", config.KeyServerJWTSecret, maskSecret(cfg.Server.JWTSecret))
	fmt.Fprintf(w, "%s: %s\n", config.KeyServerTokenTTL, cfg.Server.TokenTTL)
	fmt.Fprintf(w, "%s: %s\n", config.KeyLogMode, cfg.Log.Mode)
}

func maskSecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "********"
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
