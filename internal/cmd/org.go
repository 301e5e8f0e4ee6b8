package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pittsix/cmsctl/internal/resource"
	"github.com/pittsix/cmsctl/internal/tui"
)

var orgCmd = &cobra.Command{
	Use:     "org",
	Aliases: []string{"organization"},
	Short:   "Manage organizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var orgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all organizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Organizations()
		if err := ctrl.List(cmd.Context()); err != nil {
			return err
		}

		orgs := ctrl.Items()
		if len(orgs) == 0 {
			fmt.Println("No organizations found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, o := range orgs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", o.ID, o.Name, o.Description)
		}
		return w.Flush()
	},
}

var orgCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Organizations()
		form := ctrl.BeginCreate()
		if err := fillOrgForm(cmd, form); err != nil {
			return err
		}

		created, err := ctrl.Submit(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Created organization %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var orgEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Organizations()
		if err := ctrl.List(cmd.Context()); err != nil {
			return err
		}

		form, err := ctrl.BeginEdit(args[0])
		if err != nil {
			return err
		}
		if err := fillOrgForm(cmd, form); err != nil {
			return err
		}

		updated, err := ctrl.Submit(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Updated organization %s (%s)\n", updated.Name, updated.ID)
		return nil
	},
}

var orgDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Organizations()
		if err := ctrl.List(cmd.Context()); err != nil {
			return err
		}

		confirm, err := ctrl.RequestDelete(args[0])
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := tui.PromptConfirm(fmt.Sprintf("Delete organization %q?", confirm.TargetLabel), false)
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
		fmt.Printf("Deleted organization %s\n", args[0])
		return nil
	},
}

func fillOrgForm(cmd *cobra.Command, form *resource.Form[resource.Organization]) error {
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		form.Draft.Name = name
	}
	if desc, _ := cmd.Flags().GetString("description"); desc != "" {
		form.Draft.Description = desc
	}
	if logo, _ := cmd.Flags().GetString("logo"); logo != "" {
		form.Draft.Logo = logo
	}

	if form.Draft.Name == "" && tui.ShouldPrompt() {
		var err error
		if form.Draft.Name, err = tui.PromptString("Name", "", true); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	orgCmd.AddCommand(orgListCmd)
	orgCmd.AddCommand(orgCreateCmd)
	orgCmd.AddCommand(orgEditCmd)
	orgCmd.AddCommand(orgDeleteCmd)

	for _, c := range []*cobra.Command{orgCreateCmd, orgEditCmd} {
		c.Flags().String("name", "", "Organization name")
		c.Flags().String("description", "", "Short description")
		c.Flags().String("logo", "", "Hosted logo URL")
	}
	orgDeleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(orgCmd)
}
