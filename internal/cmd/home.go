package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kickabout/kickabout-cli/internal/events"
	"github.com/kickabout/kickabout-cli/internal/tui"
)

// homeCmd launches the interactive home screen
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Open the interactive event feed",
	Long: `Open the interactive home screen: a live feed of upcoming events
you can see, with the joined players resolved to usernames. Join an
event in place with j or enter; the row updates immediately and is
reconciled once the server confirms.

Keys:
  up/k, down  move
  j, enter    join the selected event
  r           refresh
  q           quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		sess, err := app.requireSession()
		if err != nil {
			return err
		}

		sync := app.synchronizer(app.cfg.UpcomingOnly)
		coordinator := app.coordinator(sync, events.OptimisticThenReconcile)

		model := tui.NewModel(sync, coordinator, sess.Username)
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

		_, err = program.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(homeCmd)
}
