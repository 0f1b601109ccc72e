// Package cmd wires the CLI commands for the stale merge request reminder.
package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "stalemr",
		Short: "Stale merge request reminder for GitLab teams",
		Long: `Polls GitLab for open merge requests across your teams' projects,
flags the ones that have gone stale without review, and posts a reminder
to each team's Slack webhook. Jira ticket priority tightens the staleness
threshold for urgent work.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add run flags to the root command so `stalemr` and `stalemr run`
	// work identically.
	addRunFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdRun(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
