package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pittsix/cmsctl/internal/errors"
	"github.com/pittsix/cmsctl/internal/session"
	"github.com/pittsix/cmsctl/internal/tui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your CMS session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the CMS backend",
	Long: `Authenticate with the CMS backend and persist the session token.

Examples:
  cmsctl auth login --email user@example.com --password secret
  cmsctl auth login            (prompts for credentials)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		email, password, err := credentialsFromFlags(cmd)
		if err != nil {
			return err
		}

		token, err := app.Client.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		app.Sessions.Login(token)
		sess, err := app.Sessions.Await(cmd.Context())
		if err != nil {
			return err
		}
		if sess.Status != session.StatusAuthenticated {
			return errors.NewAuthRejectedError(nil)
		}

		fmt.Printf("Logged in as %s (%s)\n", sess.User.DisplayName, sess.User.Email)
		return nil
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		email, password, err := credentialsFromFlags(cmd)
		if err != nil {
			return err
		}

		if err := app.Client.Register(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Printf("Registered %s\n", email)

		token, err := app.Client.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("registration succeeded but login failed: %w", err)
		}
		app.Sessions.Login(token)
		if _, err := app.Sessions.Await(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("You are now logged in.")
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		app.Sessions.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		sess, err := app.Sessions.Await(cmd.Context())
		if err != nil {
			return err
		}

		switch sess.Status {
		case session.StatusAuthenticated:
			fmt.Println("Logged in")
			fmt.Printf("Name:  %s\n", sess.User.DisplayName)
			fmt.Printf("Email: %s\n", sess.User.Email)
			if len(sess.User.Roles) > 0 {
				fmt.Printf("Roles: %v\n", sess.User.Roles)
			}
		default:
			fmt.Println("Not logged in.")
			fmt.Println("Use 'cmsctl auth login' to authenticate.")
		}
		return nil
	},
}

func credentialsFromFlags(cmd *cobra.Command) (email, password string, err error) {
	email, _ = cmd.Flags().GetString("email")
	password, _ = cmd.Flags().GetString("password")

	if email == "" {
		if !tui.ShouldPrompt() {
			return "", "", fmt.Errorf("--email is required")
		}
		email, err = tui.PromptString("Email", "user@example.com", true)
		if err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if !tui.ShouldPrompt() {
			return "", "", fmt.Errorf("--password is required")
		}
		password, err = tui.PromptSecret("Password")
		if err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	for _, c := range []*cobra.Command{authLoginCmd, authRegisterCmd} {
		c.Flags().String("email", "", "Email address")
		c.Flags().String("password", "", "Password")
	}

	rootCmd.AddCommand(authCmd)
}
