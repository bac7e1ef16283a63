package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	api    string
	key    string
	asJSON bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "habitctl",
		Short:         "CLI client for the habit service REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.api, "api", "a", envOr("HABITCTL_API", "http://localhost:8080"), "Habit service base URL")
	rootCmd.PersistentFlags().StringVarP(&opts.key, "key", "k", os.Getenv("HABITCTL_API_KEY"), "API key sent as a Bearer token")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		newHabitsCmd(opts),
		newRecordsCmd(opts),
		newStatsCmd(opts),
		newCategoriesCmd(opts),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
