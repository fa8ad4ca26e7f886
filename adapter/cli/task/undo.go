package task

import (
	"fmt"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/tasks/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var undoDate string

var undoCmd = &cobra.Command{
	Use:   "undo <task-id>",
	Short: "Undo a task completion",
	Long: `Remove the completion recorded for a task on a day.

Examples:
  cadence task undo 9c1b... --date 2026-08-30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UndoTaskCompletionHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		date, err := resolveDate(undoDate)
		if err != nil {
			return err
		}

		if err := app.UndoTaskCompletionHandler.Handle(cmd.Context(), commands.UndoTaskCompletionCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
			Date:   date,
		}); err != nil {
			return fmt.Errorf("failed to undo task completion: %w", err)
		}

		fmt.Println("Completion removed.")
		return nil
	},
}

func init() {
	undoCmd.Flags().StringVar(&undoDate, "date", "", "completion day (YYYY-MM-DD, default today)")
}
