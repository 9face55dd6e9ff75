package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"weeklog/web"
)

var tokenUser int64

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token for a user",
	Long: `Print a signed bearer token for an existing user.

The token is valid for server.token_ttl and is checked by "weeklog serve".`,
	Example: `
  # Token for user 1
  weeklog token --user 1

  # Use it against the API
  curl -H "Authorization: Bearer $(weeklog token --user 1)" http://localhost:8080/api/week/2026-03-02
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		_, found, err := a.store.FindUserByID(context.Background(), tokenUser)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("user %d not found", tokenUser)
		}

		auth, err := web.NewAuthenticator(a.cfg.Server.JWTSecret, a.cfg.Server.TokenTTL)
		if err != nil {
			return err
		}
		token, err := auth.IssueToken(tokenUser)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Int64Var(&tokenUser, "user", 0, "User ID")
	_ = tokenCmd.MarkFlagRequired("user")
}
