package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// logoutCmd creates a new cobra.Command for logging out of CESI Vents.
// Logout only touches local state, so it works without a network connection.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout and remove the stored credentials",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp()
			if err != nil {
				cmd.PrintErrln("Error: Failed to load configuration. Please check the logs for details.")
				return
			}

			if err := a.controller.Logout(cmd.Context()); err != nil {
				cmd.PrintErrln("Error: Failed to remove the stored credentials.")
				return
			}
			if err := a.profiles.Clear(cmd.Context()); err != nil {
				log.Error().Err(err).Msg("Failed to clear the cached profile")
			}
			cmd.Println("Logged out.")
		},
	}
}
