/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weeklog/config"
)

var (
	cfgFile string
	dbPath  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weeklog",
	Short: "Record, validate, and review weekly timesheet hours per project.",
	Long: `
**********************************************
*                 WEEKLOG                    *
**********************************************

This CLI records hours worked per user, project, and day, validates every change against
the configured rules, and reports weekly totals per project.

Entries live in a local SQLite database by default or in PostgreSQL when
storage.driver is set to postgres. Weeks run Monday to Sunday.
`,
	Example: `
  # Create configuration file
  weeklog config create

  # Load users, projects, and assignments
  weeklog seed --file ./directory.yaml

  # Log 7.5 hours for user 1 on project 2
  weeklog entry add --as 1 --project 2 --date 2026-03-02 --hours 7.5 --description "Sprint review"

  # Show the week containing a date
  weeklog week --user 1 --date 2026-03-04

  # Import a CSV sheet of entries
  weeklog import --as 1 -i ./march.csv

  # Export the weekly summary to Excel
  weeklog export --mode weekly --user 1 --date 2026-03-04 --output ./week.xlsx

  # Serve the JSON API
  weeklog serve
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.weeklog.yaml, then ./.weeklog.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides storage.path)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".weeklog")
	}

	viper.SetEnvPrefix("weeklog")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: weeklog config create")
	}
}
