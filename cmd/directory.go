package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"weeklog/storage"
	"weeklog/timesheet"
)

var (
	projectsUser   int64
	userAddName    string
	projectAddName string
	assignUser     int64
	assignProject  int64
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	Example: `
  weeklog users
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.store.ListUsers(context.Background())
		if err != nil {
			return err
		}
		printUsers(os.Stdout, users)
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects, or the projects assigned to one user",
	Example: `
  # All projects
  weeklog projects

  # Projects user 2 can book hours on
  weeklog projects --user 2
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		var projects []timesheet.Project
		if projectsUser > 0 {
			projects, err = a.service.AssignedProjects(ctx, projectsUser)
		} else {
			projects, err = a.store.ListProjects(ctx)
		}
		if err != nil {
			return err
		}
		printProjects(os.Stdout, projects)
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	Example: `
  weeklog user add --name "Erin Evans"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(userAddName)
		if name == "" {
			return fmt.Errorf("--name must not be empty")
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.store.CreateUser(context.Background(), name)
		if err != nil {
			return err
		}
		fmt.Printf("User created. ID: %d, Name: %s\n", id, name)
		return nil
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a project",
	Example: `
  weeklog project add --name "Harbour"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(projectAddName)
		if name == "" {
			return fmt.Errorf("--name must not be empty")
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.store.CreateProject(context.Background(), name)
		if err != nil {
			return err
		}
		fmt.Printf("Project created. ID: %d, Name: %s\n", id, name)
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a project to a user",
	Long: `Allow a user to book hours on a project. Assigning twice is a no-op.`,
	Example: `
  weeklog assign --user 2 --project 4
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := assignUserProject(context.Background(), a.store, assignUser, assignProject); err != nil {
			return err
		}
		fmt.Printf("Project %d assigned to user %d\n", assignProject, assignUser)
		return nil
	},
}

// assignUserProject checks both sides exist before linking them.
func assignUserProject(ctx context.Context, store storage.Store, userID, projectID int64) error {
	if _, found, err := store.FindUserByID(ctx, userID); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("user %d not found", userID)
	}
	if _, found, err := store.FindProjectByID(ctx, projectID); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("project %d not found", projectID)
	}
	return store.AssignProject(ctx, userID, projectID)
}

func printUsers(w io.Writer, users []timesheet.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users. Load some with: weeklog seed")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "%5d  %s\n", u.ID, u.Name)
	}
}

func printProjects(w io.Writer, projects []timesheet.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects.")
		return
	}
	for _, p := range projects {
		fmt.Fprintf(w, "%5d  %s\n", p.ID, p.Name)
	}
}

func init() {
	rootCmd.AddCommand(usersCmd, projectsCmd, userCmd, projectCmd, assignCmd)
	userCmd.AddCommand(userAddCmd)
	projectCmd.AddCommand(projectAddCmd)

	projectsCmd.Flags().Int64Var(&projectsUser, "user", 0, "Only projects assigned to this user")
	userAddCmd.Flags().StringVar(&userAddName, "name", "", "User name")
	projectAddCmd.Flags().StringVar(&projectAddName, "name", "", "Project name")
	assignCmd.Flags().Int64Var(&assignUser, "user", 0, "User ID")
	assignCmd.Flags().Int64Var(&assignProject, "project", 0, "Project ID")

	_ = userAddCmd.MarkFlagRequired("name")
	_ = projectAddCmd.MarkFlagRequired("name")
	_ = assignCmd.MarkFlagRequired("user")
	_ = assignCmd.MarkFlagRequired("project")
}
