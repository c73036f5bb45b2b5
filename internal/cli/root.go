package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "ctl",
		Short: "Operational CLI for the echobound session server",
		Long: `ctl talks to a running echobound session server.

It can probe server health and push privileged operational
announcements to every connection or to a single party.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server base URL (env: ECHOBOUND_SERVER)")

	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newAnnounceCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
