// Package schedule provides the schedule CLI commands.
package schedule

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for schedule operations.
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage recurring schedules and their ledgers",
	Long: `Create recurring schedules and record occurrence completions.

A schedule ties a task to a time window on a date, optionally repeating
daily, weekly or monthly. Completions and misses are recorded per
occurrence day.`,
	Aliases: []string{"sched", "s"},
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(undoCmd)
	Cmd.AddCommand(bulkCompleteCmd)
	Cmd.AddCommand(historyCmd)
}
