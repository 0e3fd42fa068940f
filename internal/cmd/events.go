package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kickabout/kickabout-cli/internal/api"
	"github.com/kickabout/kickabout-cli/internal/errors"
	"github.com/kickabout/kickabout-cli/internal/events"
	"github.com/kickabout/kickabout-cli/internal/tui"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse, create, and join events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// eventsListCmd prints the enriched event list
var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible events",
	Long: `List events visible to you: public events plus private events you
are invited to. By default only future-dated events are shown; pass
--all to include past ones.

Examples:
  kickabout events list
  kickabout events list --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		app, err := newApp()
		if err != nil {
			return err
		}
		if _, err := app.requireSession(); err != nil {
			return err
		}

		sync := app.synchronizer(!all && app.cfg.UpcomingOnly)
		list, err := sync.Load(cmd.Context())
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Println("No events.")
			return nil
		}

		for _, event := range list {
			fmt.Println(formatEventLine(event))
		}

		return nil
	},
}

// eventsShowCmd prints one event with full details
var eventsShowCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show event details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if _, err := app.requireSession(); err != nil {
			return err
		}

		event, err := app.client.GetEventByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s at %s\n", event.EventType, event.Address)
		fmt.Printf("Date:    %s\n", event.Date.Format(time.RFC1123))
		fmt.Printf("Weather: %s\n", event.Weather)
		fmt.Printf("Indoor:  %t\n", event.Indoor)
		fmt.Printf("Public:  %t\n", event.Public)
		fmt.Printf("Fees:    %.2f\n", event.Fees)
		fmt.Printf("Players: %d\n", len(event.JoinedPlayers))

		if len(event.Comments) > 0 {
			fmt.Println("\nComments:")
			for _, comment := range event.Comments {
				fmt.Printf("  %s: %s\n", comment.Username, comment.Comment)
			}
		}

		return nil
	},
}

// eventsCreateCmd creates an event
var eventsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new event",
	Long: `Create a new event you own.

Without flags an interactive form collects the details.

Examples:
  kickabout events create
  kickabout events create --type football --date 2026-09-12T15:00:00Z --address "12 Meadow Lane" --public`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if _, err := app.requireSession(); err != nil {
			return err
		}

		payload, err := eventPayloadFromFlags(cmd)
		if err != nil {
			return err
		}

		if payload.EventType == "" && tui.IsInteractive() {
			payload, err = tui.RunEventForm(payload)
			if err != nil {
				return err
			}
		}
		if err := validateEventPayload(payload); err != nil {
			return err
		}

		if err := app.client.CreateEvent(cmd.Context(), payload); err != nil {
			return err
		}

		fmt.Println("Event created.")

		return nil
	},
}

// eventsEditCmd edits an event, prefilled from its current state
var eventsEditCmd = &cobra.Command{
	Use:   "edit <event-id>",
	Short: "Edit an event you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if _, err := app.requireSession(); err != nil {
			return err
		}

		current, err := app.client.GetEventByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		payload := api.EventPayload{
			EventType:  current.EventType,
			DateString: current.Date.Format(time.RFC3339),
			Address:    current.Address,
			Fees:       current.Fees,
			Weather:    current.Weather,
			Indoor:     current.Indoor,
			Public:     current.Public,
		}

		if flagged, err := eventPayloadFromFlags(cmd); err != nil {
			return err
		} else if flagged.EventType != "" || !tui.IsInteractive() {
			payload = mergeEventPayload(payload, cmd, flagged)
		} else {
			payload, err = tui.RunEventForm(payload)
			if err != nil {
				return err
			}
		}
		if err := validateEventPayload(payload); err != nil {
			return err
		}

		updated, err := app.client.EditEvent(cmd.Context(), args[0], payload)
		if err != nil {
			return err
		}

		fmt.Printf("Event updated: %s at %s on %s.\n",
			updated.EventType, updated.Address, updated.Date.Format(time.RFC1123))

		return nil
	},
}

// eventsJoinCmd joins an event using confirm-then-refresh
var eventsJoinCmd = &cobra.Command{
	Use:   "join <event-id>",
	Short: "Join an event",
	Long: `Join an event. The join is confirmed by the server before the local
view is refreshed, so the printed list is authoritative.

Examples:
  kickabout events join 66f2a81c9d`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if _, err := app.requireSession(); err != nil {
			return err
		}

		sync := app.synchronizer(app.cfg.UpcomingOnly)
		coordinator := app.coordinator(sync, events.ConfirmThenRefresh)

		list, err := coordinator.Join(cmd.Context(), nil, args[0])
		if err != nil {
			return err
		}

		fmt.Println("Joined.")
		for _, event := range list {
			if event.ID == args[0] {
				fmt.Printf("Players now: %s\n", strings.Join(event.JoinedPlayerUsernames, ", "))
			}
		}

		return nil
	},
}

// eventsHistoryCmd lists past events the user joined
var eventsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past events you joined",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if _, err := app.requireSession(); err != nil {
			return err
		}

		history, err := app.client.GetEventHistory(cmd.Context())
		if err != nil {
			// History is a nicety; degrade to an empty list like the
			// event list does, but tell the user why.
			app.logger.WithError(err).Warn("event history fetch failed")
			fmt.Println("Could not fetch event history.")
			return nil
		}

		if len(history) == 0 {
			fmt.Println("No past events.")
			return nil
		}

		for _, event := range history {
			fmt.Printf("%s  %s  %s\n", event.Date.Format("2006-01-02"), event.EventType, event.Address)
		}

		return nil
	},
}

// formatEventLine renders one list row for the plain CLI output
func formatEventLine(event events.EnrichedEvent) string {
	var badges []string
	if event.IsJoined {
		badges = append(badges, "joined")
	}
	if event.IsOwner {
		badges = append(badges, "owner")
	}
	if event.IsInvited {
		badges = append(badges, "invited")
	}

	line := fmt.Sprintf("%s  %s  %s  %s",
		event.ID,
		event.Date.Format("2006-01-02 15:04"),
		event.EventType,
		event.Address)
	if len(badges) > 0 {
		line += "  [" + strings.Join(badges, ",") + "]"
	}
	return line
}

// eventPayloadFromFlags builds a payload from command flags
func eventPayloadFromFlags(cmd *cobra.Command) (api.EventPayload, error) {
	eventType, _ := cmd.Flags().GetString("type")
	date, _ := cmd.Flags().GetString("date")
	address, _ := cmd.Flags().GetString("address")
	fees, _ := cmd.Flags().GetFloat64("fees")
	weather, _ := cmd.Flags().GetString("weather")
	indoor, _ := cmd.Flags().GetBool("indoor")
	public, _ := cmd.Flags().GetBool("public")

	return api.EventPayload{
		EventType:  eventType,
		DateString: date,
		Address:    address,
		Fees:       fees,
		Weather:    weather,
		Indoor:     indoor,
		Public:     public,
	}, nil
}

// mergeEventPayload overlays explicitly set flags onto the current payload
func mergeEventPayload(current api.EventPayload, cmd *cobra.Command, flagged api.EventPayload) api.EventPayload {
	if cmd.Flags().Changed("type") {
		current.EventType = flagged.EventType
	}
	if cmd.Flags().Changed("date") {
		current.DateString = flagged.DateString
	}
	if cmd.Flags().Changed("address") {
		current.Address = flagged.Address
	}
	if cmd.Flags().Changed("fees") {
		current.Fees = flagged.Fees
	}
	if cmd.Flags().Changed("weather") {
		current.Weather = flagged.Weather
	}
	if cmd.Flags().Changed("indoor") {
		current.Indoor = flagged.Indoor
	}
	if cmd.Flags().Changed("public") {
		current.Public = flagged.Public
	}
	return current
}

// validateEventPayload enforces the client-side required fields
func validateEventPayload(payload api.EventPayload) error {
	if payload.EventType == "" {
		return errors.NewValidationFailedError("event type")
	}
	if payload.DateString == "" {
		return errors.NewValidationFailedError("date")
	}
	if _, err := time.Parse(time.RFC3339, payload.DateString); err != nil {
		return errors.NewValidationFailedError("date (RFC 3339)")
	}
	if payload.Address == "" {
		return errors.NewValidationFailedError("address")
	}
	return nil
}

func addEventPayloadFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "Event type, e.g. football")
	cmd.Flags().String("date", "", "Event date, RFC 3339")
	cmd.Flags().String("address", "", "Event address")
	cmd.Flags().Float64("fees", 0, "Participation fees")
	cmd.Flags().String("weather", "", "Expected weather")
	cmd.Flags().Bool("indoor", false, "Indoor event")
	cmd.Flags().Bool("public", true, "Public event")
}

func init() {
	eventsListCmd.Flags().Bool("all", false, "Include past events")

	addEventPayloadFlags(eventsCreateCmd)
	addEventPayloadFlags(eventsEditCmd)

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)
	eventsCmd.AddCommand(eventsCreateCmd)
	eventsCmd.AddCommand(eventsEditCmd)
	eventsCmd.AddCommand(eventsJoinCmd)
	eventsCmd.AddCommand(eventsHistoryCmd)

	rootCmd.AddCommand(eventsCmd)
}
