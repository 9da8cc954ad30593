// Package cli provides the command-line interface for chattasks.
package cli

import (
	"fmt"

	"github.com/runoshun/chat-tasks/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupData  = "data"
	groupSetup = "setup"
)

// Global flag names. They are read by main before the container is built,
// and declared here so cobra accepts and documents them.
const (
	FlagDir    = "dir"
	FlagConfig = "config"
)

// NewRootCommand creates the root command for chattasks.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "chattasks",
		Short: "Google Chat task completion reports",
		Long: `chattasks reconstructs the lifecycle of tasks from the "via Tasks"
notifications posted in Google Chat spaces and reports, per assignee,
how many tasks were received and completed in a date range.

Dates are YYYY-MM-DD (UTC). The range is half-open: --date-end is excluded.
Without dates, the previous calendar month is used.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.PersistentFlags().String(FlagDir, ".", "Working directory for data files, logs and reports")
	root.PersistentFlags().String(FlagConfig, "", "Config file (default <dir>/chattasks.toml)")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupData, Title: "Data Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	spacesCmd := newSpacesCommand(c)
	spacesCmd.GroupID = groupData

	peopleCmd := newPeopleCommand(c)
	peopleCmd.GroupID = groupData

	tasksCmd := newTasksCommand(c)
	tasksCmd.GroupID = groupData

	reportCmd := newReportCommand(c)
	reportCmd.GroupID = groupData

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	root.AddCommand(
		spacesCmd,
		peopleCmd,
		tasksCmd,
		reportCmd,
		configCmd,
	)

	return root
}
