package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weeklog/timesheet"
)

var seedFile string

type seedDirectory struct {
	Users []struct {
		ID   int64  `mapstructure:"id"`
		Name string `mapstructure:"name"`
	} `mapstructure:"users"`
	Projects []struct {
		ID   int64  `mapstructure:"id"`
		Name string `mapstructure:"name"`
	} `mapstructure:"projects"`
	Assignments []struct {
		UserID    int64 `mapstructure:"user_id"`
		ProjectID int64 `mapstructure:"project_id"`
	} `mapstructure:"assignments"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users, projects, and project assignments",
	Long: `Insert users, projects, and user-project assignments into the store.

Without --file a small demo directory is loaded. Rows whose ID already exists are
left untouched, so seeding twice is safe.

Seed file format (YAML):
  users:
    - {id: 1, name: "Alice Ahmed"}
  projects:
    - {id: 1, name: "Stadium"}
  assignments:
    - {user_id: 1, project_id: 1}`,
	Example: `
  # Load the demo directory
  weeklog seed

  # Load a directory file
  weeklog seed --file ./directory.yaml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, projects, assignments := demoDirectory()
		if strings.TrimSpace(seedFile) != "" {
			var err error
			users, projects, assignments, err = readSeedFile(seedFile)
			if err != nil {
				return err
			}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		inserted, err := a.store.SeedDirectory(context.Background(), users, projects, assignments)
		if err != nil {
			return err
		}
		fmt.Printf("Seed completed. Users: %d, Projects: %d, Assignments: %d, Rows inserted: %d\n",
			len(users),
			len(projects),
			len(assignments),
			inserted,
		)
		return nil
	},
}

func readSeedFile(path string) ([]timesheet.User, []timesheet.Project, []timesheet.Assignment, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var dir seedDirectory
	if err := v.Unmarshal(&dir); err != nil {
		return nil, nil, nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	users := make([]timesheet.User, 0, len(dir.Users))
	for i, u := range dir.Users {
		if u.ID <= 0 || strings.TrimSpace(u.Name) == "" {
			return nil, nil, nil, fmt.Errorf("users[%d] requires id > 0 and a name", i)
		}
		users = append(users, timesheet.User{ID: u.ID, Name: strings.TrimSpace(u.Name)})
	}
	projects := make([]timesheet.Project, 0, len(dir.Projects))
	for i, p := range dir.Projects {
		if p.ID <= 0 || strings.TrimSpace(p.Name) == "" {
			return nil, nil, nil, fmt.Errorf("projects[%d] requires id > 0 and a name", i)
		}
		projects = append(projects, timesheet.Project{ID: p.ID, Name: strings.TrimSpace(p.Name)})
	}
	assignments := make([]timesheet.Assignment, 0, len(dir.Assignments))
	for i, a := range dir.Assignments {
		if a.UserID <= 0 || a.ProjectID <= 0 {
			return nil, nil, nil, fmt.Errorf("assignments[%d] requires user_id and project_id > 0", i)
		}
		assignments = append(assignments, timesheet.Assignment{UserID: a.UserID, ProjectID: a.ProjectID})
	}

	return users, projects, assignments, nil
}

func demoDirectory() ([]timesheet.User, []timesheet.Project, []timesheet.Assignment) {
	users := []timesheet.User{
		{ID: 1, Name: "Alice Ahmed"},
		{ID: 2, Name: "Bobby Brown"},
		{ID: 3, Name: "Clara Clark"},
		{ID: 4, Name: "Donny Darko"},
	}
	projects := []timesheet.Project{
		{ID: 1, Name: "Stadium"},
		{ID: 2, Name: "Library"},
		{ID: 3, Name: "Market"},
		{ID: 4, Name: "Station"},
	}
	assignments := []timesheet.Assignment{
		{UserID: 1, ProjectID: 1},
		{UserID: 1, ProjectID: 2},
		{UserID: 2, ProjectID: 1},
		{UserID: 2, ProjectID: 3},
		{UserID: 3, ProjectID: 2},
		{UserID: 3, ProjectID: 4},
		{UserID: 4, ProjectID: 3},
		{UserID: 4, ProjectID: 4},
	}
	return users, projects, assignments
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML file with users, projects, and assignments (default: demo directory)")
}
