package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pittsix/cmsctl/internal/session"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your own profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		sess, err := app.RequireSession(cmd.Context())
		if err != nil {
			return err
		}

		u := sess.User
		fmt.Printf("Name:  %s\n", u.DisplayName)
		fmt.Printf("Email: %s\n", u.Email)
		if u.Bio != "" {
			fmt.Printf("Bio:   %s\n", u.Bio)
		}
		if u.AvatarURL != "" {
			fmt.Printf("Image: %s\n", u.AvatarURL)
		}
		if len(u.Roles) > 0 {
			fmt.Printf("Roles: %v\n", u.Roles)
		}
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Update your profile",
	Long: `Update your profile fields. Only the flags you pass are sent.

Examples:
  cmsctl profile edit --first-name Ana --bio "Writes things"
  cmsctl profile edit --image ./avatar.png   (uploads the file first)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		if _, err := app.RequireSession(cmd.Context()); err != nil {
			return err
		}

		var update session.ProfileUpdate
		update.FirstName, _ = cmd.Flags().GetString("first-name")
		update.LastName, _ = cmd.Flags().GetString("last-name")
		update.Bio, _ = cmd.Flags().GetString("bio")

		if image, _ := cmd.Flags().GetString("image"); image != "" {
			file, err := os.Open(image)
			if err != nil {
				return err
			}
			defer file.Close()

			url, err := app.Client.UploadProfileImage(cmd.Context(), image, file)
			if err != nil {
				return err
			}
			update.ProfileImage = url
			fmt.Printf("Uploaded profile image: %s\n", url)
		}

		if err := app.Sessions.UpdateProfile(cmd.Context(), update); err != nil {
			return err
		}

		sess := app.Sessions.Current()
		fmt.Printf("Profile updated for %s\n", sess.User.DisplayName)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileEditCmd)

	profileEditCmd.Flags().String("first-name", "", "First name")
	profileEditCmd.Flags().String("last-name", "", "Last name")
	profileEditCmd.Flags().String("bio", "", "Short bio")
	profileEditCmd.Flags().String("image", "", "Path to a profile image to upload")

	rootCmd.AddCommand(profileCmd)
}
