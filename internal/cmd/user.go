package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pittsix/cmsctl/internal/resource"
	"github.com/pittsix/cmsctl/internal/tui"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage CMS accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Users()
		if err := ctrl.List(cmd.Context()); err != nil {
			return err
		}

		users := ctrl.Items()
		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLES")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n", u.ID, u.Email, u.FirstName, u.LastName, strings.Join(u.Roles, ","))
		}
		return w.Flush()
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Users()
		form := ctrl.BeginCreate()
		if err := fillUserForm(cmd, form); err != nil {
			return err
		}

		created, err := ctrl.Submit(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s)\n", created.Email, created.ID)
		return nil
	},
}

var userEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Users()
		if err := ctrl.List(cmd.Context()); err != nil {
			return err
		}

		form, err := ctrl.BeginEdit(args[0])
		if err != nil {
			return err
		}
		if err := fillUserForm(cmd, form); err != nil {
			return err
		}

		updated, err := ctrl.Submit(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Updated user %s (%s)\n", updated.Email, updated.ID)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Users()
		if err := ctrl.List(cmd.Context()); err != nil {
			return err
		}

		confirm, err := ctrl.RequestDelete(args[0])
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := tui.PromptConfirm(fmt.Sprintf("Delete user %q?", confirm.TargetLabel), false)
			if err != nil {
				return err
			}
			if !ok {
				ctrl.CancelDelete()
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := ctrl.ConfirmDelete(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Deleted user %s\n", args[0])
		return nil
	},
}

func fillUserForm(cmd *cobra.Command, form *resource.Form[resource.User]) error {
	if email, _ := cmd.Flags().GetString("email"); email != "" {
		form.Draft.Email = email
	}
	if first, _ := cmd.Flags().GetString("first-name"); first != "" {
		form.Draft.FirstName = first
	}
	if last, _ := cmd.Flags().GetString("last-name"); last != "" {
		form.Draft.LastName = last
	}
	if roles, _ := cmd.Flags().GetStringSlice("roles"); len(roles) > 0 {
		form.Draft.Roles = roles
	}

	if !tui.ShouldPrompt() {
		return nil
	}

	var err error
	if form.Draft.Email == "" {
		if form.Draft.Email, err = tui.PromptString("Email", "user@example.com", true); err != nil {
			return err
		}
	}
	if form.Draft.FirstName == "" {
		if form.Draft.FirstName, err = tui.PromptString("First name", "", true); err != nil {
			return err
		}
	}
	if form.Draft.LastName == "" {
		if form.Draft.LastName, err = tui.PromptString("Last name", "", true); err != nil {
			return err
		}
	}
	if len(form.Draft.Roles) == 0 {
		roles := []string{resource.RoleUser, resource.RoleOrgAdmin, resource.RoleSuperadmin}
		if form.Draft.Roles, err = tui.PromptMultiSelect("Roles", roles, []string{resource.RoleUser}); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userEditCmd)
	userCmd.AddCommand(userDeleteCmd)

	for _, c := range []*cobra.Command{userCreateCmd, userEditCmd} {
		c.Flags().String("email", "", "Email address")
		c.Flags().String("first-name", "", "First name")
		c.Flags().String("last-name", "", "Last name")
		c.Flags().StringSlice("roles", nil, "Roles (user, org_admin, superadmin)")
	}
	userDeleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(userCmd)
}
