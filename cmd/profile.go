package cmd

import (
	"context"
	"encoding/json"

	"github.com/cesi-vents/vents/client"
	"github.com/cesi-vents/vents/guard"
	"github.com/cesi-vents/vents/pkg/validation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// profileCmd represents the base command for profile operations.
func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your CESI Vents profile",
	}

	cmd.AddCommand(
		whoamiCmd(),
		updateProfileCmd(),
		avatarCmd(),
	)

	return cmd
}

// whoamiCmd shows the signed-in user's profile. With --offline it reads the
// locally cached copy from the last successful fetch instead of the backend.
func whoamiCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile of the signed-in user",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp()
			if err != nil {
				cmd.PrintErrln("Error: Failed to load configuration. Please check the logs for details.")
				return
			}

			if offline {
				showCachedProfile(cmd, a)
				return
			}

			if !requireSession(cmd.Context(), cmd, a, guard.Requirement{Authenticated: true}) {
				return
			}

			state := a.controller.Current()
			if state.Profile == nil {
				cmd.PrintErrln("Error: Failed to fetch the profile. Please check the logs for details.")
				return
			}
			cacheProfile(cmd.Context(), a, state.Profile)
			printProfile(cmd, state.Profile)
		},
	}

	cmd.Flags().BoolVarP(&offline, "offline", "o", false, "Show the locally cached profile without a network call")

	return cmd
}

func showCachedProfile(cmd *cobra.Command, a *app) {
	payload, err := a.profiles.Get(cmd.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to read the cached profile")
		cmd.PrintErrln("Error: Failed to read the cached profile.")
		return
	}
	if payload == "" {
		cmd.Println("No cached profile found. Run `vents profile whoami` while online first.")
		return
	}

	var profile client.Profile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		log.Error().Err(err).Msg("Cached profile is not valid JSON")
		cmd.PrintErrln("Error: The cached profile is corrupted.")
		return
	}
	printProfile(cmd, &profile)
}

// updateProfileCmd submits changed profile fields to the backend.
func updateProfileCmd() *cobra.Command {
	var email, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Run: func(cmd *cobra.Command, args []string) {
			if email == "" && firstName == "" && lastName == "" {
				cmd.PrintErrln("Error: at least one of --email, --first-name, or --last-name is required.")
				return
			}

			a, err := newApp()
			if err != nil {
				cmd.PrintErrln("Error: Failed to load configuration. Please check the logs for details.")
				return
			}
			if !requireSession(cmd.Context(), cmd, a, guard.Requirement{Authenticated: true}) {
				return
			}

			update := client.ProfileUpdate{Email: email, FirstName: firstName, LastName: lastName}
			if err := a.controller.UpdateProfile(cmd.Context(), update); err != nil {
				cmd.PrintErrln("Error:", err)
				return
			}

			state := a.controller.Current()
			cacheProfile(cmd.Context(), a, state.Profile)
			cmd.Println("Profile updated successfully.")
			printProfile(cmd, state.Profile)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "New email address")
	cmd.Flags().StringVarP(&firstName, "first-name", "f", "", "New first name")
	cmd.Flags().StringVarP(&lastName, "last-name", "l", "", "New last name")

	return cmd
}

// avatarCmd uploads a new avatar image.
func avatarCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Upload a new avatar image",
		Run: func(cmd *cobra.Command, args []string) {
			if err := validation.ValidateNonEmptyString("file", filePath); err != nil {
				cmd.PrintErrln("Error:", err)
				return
			}

			a, err := newApp()
			if err != nil {
				cmd.PrintErrln("Error: Failed to load configuration. Please check the logs for details.")
				return
			}
			if !requireSession(cmd.Context(), cmd, a, guard.Requirement{Authenticated: true}) {
				return
			}

			if err := a.controller.UploadAvatar(cmd.Context(), filePath); err != nil {
				cmd.PrintErrln("Error:", err)
				return
			}

			state := a.controller.Current()
			cacheProfile(cmd.Context(), a, state.Profile)
			cmd.Println("Avatar uploaded successfully.")
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Path to the image file (required)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		log.Error().Err(err).Msg("Failed to mark 'file' flag as required")
	}

	return cmd
}

// cacheProfile stores the profile JSON for offline use. Cache failures are
// logged but never fail the command that triggered them.
func cacheProfile(ctx context.Context, a *app, profile *client.Profile) {
	if profile == nil {
		return
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode profile for caching")
		return
	}
	if err := a.profiles.Put(ctx, string(payload)); err != nil {
		log.Error().Err(err).Msg("Failed to cache profile")
	}
}

func printProfile(cmd *cobra.Command, profile *client.Profile) {
	if profile == nil {
		return
	}
	cmd.Println("Profile:")
	cmd.Printf("ID: %d\n", profile.ID)
	cmd.Printf("Name: %s %s\n", profile.FirstName, profile.LastName)
	cmd.Printf("Email: %s\n", profile.Email)
	cmd.Printf("Role: %s\n", profile.Role)
	cmd.Printf("Points: %d\n", profile.Points)
	if profile.ClubID != nil {
		cmd.Printf("Club ID: %d\n", *profile.ClubID)
	}
	if profile.AvatarURL != "" {
		cmd.Printf("Avatar: %s\n", profile.AvatarURL)
	}
}
