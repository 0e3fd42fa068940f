package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	apiURLFlag   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "kickabout",
	Short: "Terminal client for the kickabout event-coordination service",
	Long: `kickabout is a terminal client for the kickabout social event service.
Register or log in, browse upcoming location- and weather-tagged events,
create your own, and join events with the people who play near you.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "API base URL (overrides config and KICKABOUT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
}
