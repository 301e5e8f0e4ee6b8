package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pittsix/cmsctl/internal/resource"
	"github.com/pittsix/cmsctl/internal/tui"
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Manage articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var articleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Articles()
		if err := ctrl.List(cmd.Context()); err != nil {
			return err
		}
		printArticles(ctrl.Items())
		return nil
	},
}

var articleMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Articles()
		if err := ctrl.ListMine(cmd.Context()); err != nil {
			return err
		}
		printArticles(ctrl.Items())
		return nil
	},
}

var articleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an article",
	Long: `Create an article. Missing fields are prompted for when the
terminal is interactive.

Examples:
  cmsctl article create --title "Launch" --content "We shipped." --status published`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Articles()
		form := ctrl.BeginCreate()
		if err := fillArticleForm(cmd, form); err != nil {
			return err
		}

		created, err := ctrl.Submit(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Created article %s (%s)\n", created.Title, created.ID)
		return nil
	},
}

var articleEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Articles()
		if err := ctrl.List(cmd.Context()); err != nil {
			return err
		}

		form, err := ctrl.BeginEdit(args[0])
		if err != nil {
			return err
		}
		if err := fillArticleForm(cmd, form); err != nil {
			return err
		}

		updated, err := ctrl.Submit(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Updated article %s (%s)\n", updated.Title, updated.ID)
		return nil
	},
}

var articleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		ctrl := app.Articles()
		if err := ctrl.List(cmd.Context()); err != nil {
			return err
		}

		confirm, err := ctrl.RequestDelete(args[0])
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := tui.PromptConfirm(fmt.Sprintf("Delete article %q?", confirm.TargetLabel), false)
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
		fmt.Printf("Deleted article %s\n", args[0])
		return nil
	},
}

// fillArticleForm applies flags over the form draft and prompts for
// required fields that are still empty.
func fillArticleForm(cmd *cobra.Command, form *resource.Form[resource.Article]) error {
	if title, _ := cmd.Flags().GetString("title"); title != "" {
		form.Draft.Title = title
	}
	if content, _ := cmd.Flags().GetString("content"); content != "" {
		form.Draft.Content = content
	}
	if image, _ := cmd.Flags().GetString("image"); image != "" {
		form.Draft.Image = image
	}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		form.Draft.Status = status
	}

	if !tui.ShouldPrompt() {
		return nil
	}

	var err error
	if form.Draft.Title == "" {
		if form.Draft.Title, err = tui.PromptString("Title", "", true); err != nil {
			return err
		}
	}
	if form.Draft.Content == "" {
		if form.Draft.Content, err = tui.PromptText("Content", ""); err != nil {
			return err
		}
	}
	if form.Draft.Status == "" {
		if form.Draft.Status, err = tui.PromptSelect("Status", []string{resource.ArticleStatusDraft, resource.ArticleStatusPublished}); err != nil {
			return err
		}
	}
	return nil
}

func printArticles(articles []resource.Article) {
	if len(articles) == 0 {
		fmt.Println("No articles found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tAUTHOR")
	for _, a := range articles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Title, a.Status, a.Author)
	}
	w.Flush()
}

func init() {
	articleCmd.AddCommand(articleListCmd)
	articleCmd.AddCommand(articleMineCmd)
	articleCmd.AddCommand(articleCreateCmd)
	articleCmd.AddCommand(articleEditCmd)
	articleCmd.AddCommand(articleDeleteCmd)

	for _, c := range []*cobra.Command{articleCreateCmd, articleEditCmd} {
		c.Flags().String("title", "", "Article title")
		c.Flags().String("content", "", "Article body")
		c.Flags().String("image", "", "Hosted image URL")
		c.Flags().String("status", "", "draft or published")
	}
	articleDeleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(articleCmd)
}
