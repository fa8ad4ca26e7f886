// Package task provides the task CLI commands.
package task

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Cmd is the parent command for task operations.
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the task completion ledger",
	Long: `Record daily completions for unscheduled tasks.

A task completion is keyed by (task, day): completing the same task
again on the same day is rejected, completing it on another day starts
a fresh row.`,
	Aliases: []string{"t"},
}

// resolveDate parses a YYYY-MM-DD flag value, empty meaning now.
func resolveDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return date, nil
}

func init() {
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(undoCmd)
	Cmd.AddCommand(bulkCompleteCmd)
}
