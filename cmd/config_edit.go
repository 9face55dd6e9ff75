package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weeklog/config"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active weeklog config file in $VISUAL, $EDITOR or vi.

A missing file is created from the example template first. When the editor exits the
content is validated; an invalid edit is rolled back to the previous content and the
validation error is reported. Changed settings are listed on success.`,
	Example: `
  # Edit active config
  weeklog config edit

  # Edit a specific file with a custom editor
  EDITOR="code --wait" weeklog --configFile ./team.yaml config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFilePath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		before, created, err := loadOrSeedConfigFile(path)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", path)
		}

		editor, err := editorCommand(pickEditor(os.Getenv("VISUAL"), os.Getenv("EDITOR")), path)
		if err != nil {
			return err
		}
		editor.Stdin, editor.Stdout, editor.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := editor.Run(); err != nil {
			return fmt.Errorf("run editor: %w", err)
		}

		return checkEditedConfig(os.Stdout, path, before)
	},
}

// checkEditedConfig validates the edited file. Invalid content is replaced by
// before; valid content is compared against it and the differences printed.
func checkEditedConfig(w io.Writer, path string, before []byte) error {
	after, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read edited config: %w", err)
	}
	if bytes.Equal(before, after) {
		fmt.Fprintln(w, "No changes.")
		return nil
	}

	updated, err := config.ValidateYAMLContent(after)
	if err != nil {
		if restoreErr := os.WriteFile(path, before, 0o600); restoreErr != nil {
			return fmt.Errorf("config invalid (%v) and restore failed: %w", err, restoreErr)
		}
		return fmt.Errorf("config invalid, previous content restored in %s: %w", path, err)
	}

	fmt.Fprintf(w, "Configuration saved and validated: %s\n", path)
	fmt.Fprintf(w, "Storage: %s\n", describeStorage(updated.Storage))
	previous, err := config.ValidateYAMLContent(before)
	if err != nil {
		return nil
	}
	for _, change := range configChanges(previous, updated) {
		fmt.Fprintf(w, "  changed %s\n", change)
	}
	return nil
}

// configChanges lists "key: old -> new" for every printed setting that differs.
func configChanges(before, after *config.Config) []string {
	var a, b bytes.Buffer
	printConfig(&a, before)
	printConfig(&b, after)
	oldLines := strings.Split(a.String(), "\n")
	newLines := strings.Split(b.String(), "\n")

	var changes []string
	for i := range newLines {
		if i >= len(oldLines) || oldLines[i] == newLines[i] {
			continue
		}
		key, newValue, _ := strings.Cut(newLines[i], ": ")
		_, oldValue, _ := strings.Cut(oldLines[i], ": ")
		changes = append(changes, fmt.Sprintf("%s: %s -> %s", key, oldValue, newValue))
	}
	return changes
}

// configFilePath picks --configFile, then the file viper loaded, then
// $HOME/.weeklog.yaml.
func configFilePath(flagPath, activePath string) (string, error) {
	if strings.TrimSpace(flagPath) != "" {
		return flagPath, nil
	}
	if strings.TrimSpace(activePath) != "" {
		return strings.TrimSpace(activePath), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".weeklog.yaml"), nil
}

// loadOrSeedConfigFile returns the current file content, writing the example
// template first when the file does not exist.
func loadOrSeedConfigFile(path string) ([]byte, bool, error) {
	content, err := os.ReadFile(path)
	if err == nil {
		return content, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("read config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("create config directory: %w", err)
	}
	content = []byte(config.ExampleYAML())
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return nil, false, fmt.Errorf("write example config: %w", err)
	}
	return content, true, nil
}

func describeStorage(storage config.StorageConfig) string {
	if storage.Driver == config.DriverPostgres {
		return "postgres (dsn " + maskSecret(storage.DSN) + ")"
	}
	return "sqlite at " + storage.Path
}

func pickEditor(visual, editor string) string {
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

func editorCommand(editor, path string) (*exec.Cmd, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return exec.Command(fields[0], append(fields[1:], path)...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
