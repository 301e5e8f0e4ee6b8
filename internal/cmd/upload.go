package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an image and print its hosted URL",
	Long: `Upload an image to the CMS and print the hosted URL, suitable
for --image on 'cmsctl article create'.

Examples:
  cmsctl upload ./header.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		url, err := app.Client.Upload(cmd.Context(), args[0], file)
		if err != nil {
			return err
		}

		fmt.Println(url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
