package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cesi-vents/vents/guard"
	"github.com/cesi-vents/vents/pkg/validation"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// clubsCmd represents the base command for club operations.
func clubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "Browse and join student clubs",
	}

	cmd.AddCommand(
		listClubsCmd(),
		joinClubCmd(),
	)

	return cmd
}

// listClubsCmd shows the list of student clubs.
func listClubsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the list of student clubs",
		Run:   listClubs,
	}
}

func listClubs(cmd *cobra.Command, args []string) {
	a, err := newApp()
	if err != nil {
		cmd.PrintErrln("Error: Failed to load configuration. Please check the logs for details.")
		return
	}
	if !requireSession(cmd.Context(), cmd, a, guard.Requirement{Authenticated: true}) {
		return
	}

	log.Info().Msg("Listing student clubs...")
	clubs, err := a.api.FetchClubs(cmd.Context())
	if err != nil {
		cmd.PrintErrln("Error:", err)
		return
	}
	if len(clubs) == 0 {
		cmd.Println("No clubs found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Row ID", "Club ID", "Name", "Category", "Members"})

	// Table appearance settings
	table.SetColMinWidth(2, 40)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for i, club := range clubs {
		cleanedName := strings.ReplaceAll(club.Name, "\n", " ")
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", club.ID),
			cleanedName,
			club.Category,
			fmt.Sprintf("%d", club.Members),
		})
	}

	table.Render()
	log.Info().Msgf("Successfully listed %d clubs.", len(clubs))
}

// joinClubCmd adds the signed-in user to a club.
func joinClubCmd() *cobra.Command {
	var clubID int

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a student club",
		Run: func(cmd *cobra.Command, args []string) {
			if err := validation.ValidateClubID(clubID); err != nil {
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

			if err := a.api.JoinClub(cmd.Context(), clubID); err != nil {
				cmd.PrintErrln("Error:", err)
				return
			}
			cmd.Printf("Successfully joined club %d.\n", clubID)
		},
	}

	cmd.Flags().IntVarP(&clubID, "id", "i", 0, "ID of the club to join")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Error().Err(err).Msg("Failed to mark 'id' flag as required")
	}

	return cmd
}
