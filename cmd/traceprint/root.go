// Package main provides the entry point for the traceprint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for traceprint.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traceprint",
		Short: "Digital footprint scanner for usernames and email addresses",
		Long: `traceprint maps the public digital footprint of a username or email address.
It probes public platforms for matching profiles, normalizes the findings,
and scores the resulting identity exposure.

Probing is deliberately polite: one request per platform, public profile
pages only, with a fixed delay between requests. Use --tor to hide your
own network location from the probed platforms.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
