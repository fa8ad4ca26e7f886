package task

import (
	"fmt"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/tasks/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var completeDate string

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task as done for a day",
	Long: `Record a daily completion for an unscheduled task.

Examples:
  cadence task complete 9c1b...
  cadence task complete 9c1b... --date 2026-08-30`,
	Aliases: []string{"done"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CompleteTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		date, err := resolveDate(completeDate)
		if err != nil {
			return err
		}

		result, err := app.CompleteTaskHandler.Handle(cmd.Context(), commands.CompleteTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
			Date:   date,
		})
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Printf("Task completed for %s\n", result.CompletedOn)
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVar(&completeDate, "date", "", "completion day (YYYY-MM-DD, default today)")
}
