package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cesi-vents/vents/client"
	"github.com/cesi-vents/vents/guard"
	"github.com/cesi-vents/vents/pkg/pool"
	"github.com/cesi-vents/vents/pkg/validation"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// eventsCmd represents the base command for event operations.
func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse and register for campus events",
	}

	cmd.AddCommand(
		listEventsCmd(),
		showEventCmd(),
		registerEventCmd(),
	)

	return cmd
}

// listEventsCmd shows the list of upcoming events. With --details it also
// fetches each event's full record concurrently to include descriptions.
func listEventsCmd() *cobra.Command {
	var details bool
	var numThreads int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the list of campus events",
		Run: func(cmd *cobra.Command, args []string) {
			listEvents(cmd, details, numThreads)
		},
	}

	cmd.Flags().BoolVarP(&details, "details", "d", false, "Fetch the full record of every event")
	cmd.Flags().IntVarP(&numThreads, "threads", "t", 5, "Number of threads to use for fetching event details")

	return cmd
}

func listEvents(cmd *cobra.Command, details bool, numThreads int) {
	if numThreads < 1 || numThreads > 20 {
		cmd.PrintErrln("Error: Number of threads should be between 1 and 20.")
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

	log.Info().Msg("Listing campus events...")
	events, err := a.api.FetchEvents(cmd.Context())
	if err != nil {
		cmd.PrintErrln("Error:", err)
		return
	}
	if len(events) == 0 {
		cmd.Println("No events found.")
		return
	}

	if details {
		events = fetchEventDetails(cmd, a, events, numThreads)
	}

	table := tablewriter.NewWriter(os.Stdout)
	header := []string{"Row ID", "Event ID", "Title", "Date", "Location", "Price", "Seats"}
	if details {
		header = append(header, "Description")
	}
	table.SetHeader(header)

	// Table appearance settings
	table.SetColMinWidth(2, 40)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for i, event := range events {
		cleanedTitle := strings.ReplaceAll(event.Title, "\n", " ")
		row := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", event.ID),
			cleanedTitle,
			event.Date,
			event.Location,
			fmt.Sprintf("%.2f", event.Price),
			fmt.Sprintf("%d/%d", event.Registered, event.Capacity),
		}
		if details {
			row = append(row, strings.ReplaceAll(event.Description, "\n", " "))
		}
		table.Append(row)
	}

	table.Render()
	log.Info().Msgf("Successfully listed %d events.", len(events))
}

// fetchEventDetails replaces each listed event with its full record, fetched
// concurrently. Events whose detail fetch fails keep their listing record.
func fetchEventDetails(cmd *cobra.Command, a *app, events []client.Event, numThreads int) []client.Event {
	bar := progressbar.NewOptions(len(events),
		progressbar.OptionSetDescription("Fetching event details..."),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
	)

	detailed, errs := pool.RunCollect(cmd.Context(), events, numThreads,
		func(ctx context.Context, event client.Event) (client.Event, error) {
			full, err := a.api.FetchEvent(ctx, event.ID)
			_ = bar.Add(1)
			if err != nil {
				log.Info().Msgf("Failed to fetch details for event ID %d: %v", event.ID, err)
				return client.Event{}, err
			}
			return *full, nil
		})
	_ = bar.Finish()

	if len(errs) > 0 {
		cmd.PrintErrf("Warning: failed to fetch details for %d event(s).\n", len(errs))
	}
	for i := range detailed {
		if detailed[i].ID == 0 {
			detailed[i] = events[i]
		}
	}
	return detailed
}

// showEventCmd shows detailed information about a specific event, given its ID.
func showEventCmd() *cobra.Command {
	var eventID int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show information about a specific event",
		Run: func(cmd *cobra.Command, args []string) {
			showEvent(cmd, eventID)
		},
	}

	cmd.Flags().IntVarP(&eventID, "id", "i", 0, "ID of the event to show its information")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Error().Err(err).Msg("Failed to mark 'id' flag as required")
	}

	return cmd
}

func showEvent(cmd *cobra.Command, eventID int) {
	if err := validation.ValidateEventID(eventID); err != nil {
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

	log.Info().Msgf("Fetching info for event with ID=%d", eventID)
	event, err := a.api.FetchEvent(cmd.Context(), eventID)
	if err != nil {
		cmd.PrintErrln("Error:", err)
		return
	}

	cmd.Println("Event Information:")
	cmd.Printf("ID: %d\n", event.ID)
	cmd.Printf("Title: %s\n", event.Title)
	cmd.Printf("Date: %s\n", event.Date)
	cmd.Printf("Location: %s\n", event.Location)
	cmd.Printf("Price: %.2f\n", event.Price)
	cmd.Printf("Seats: %d/%d\n", event.Registered, event.Capacity)
	if event.Description != "" {
		cmd.Printf("Description: %s\n", event.Description)
	}
}

// registerEventCmd registers the signed-in user for an event.
func registerEventCmd() *cobra.Command {
	var eventID int

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register for an event",
		Run: func(cmd *cobra.Command, args []string) {
			if err := validation.ValidateEventID(eventID); err != nil {
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

			if err := a.api.RegisterForEvent(cmd.Context(), eventID); err != nil {
				cmd.PrintErrln("Error:", err)
				return
			}
			cmd.Printf("Successfully registered for event %d.\n", eventID)
		},
	}

	cmd.Flags().IntVarP(&eventID, "id", "i", 0, "ID of the event to register for")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Error().Err(err).Msg("Failed to mark 'id' flag as required")
	}

	return cmd
}
