package task

import (
	"fmt"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/tasks/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var bulkDate string

var bulkCompleteCmd = &cobra.Command{
	Use:   "complete-bulk <task-id>...",
	Short: "Mark several tasks as done for a day",
	Long: `Record daily completions for several tasks in one transaction.
Tasks already completed on the day are skipped rather than failing
the batch.

Examples:
  cadence task complete-bulk 9c1b... 4f2a... --date 2026-08-30`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CompleteTasksBulkHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskIDs := make([]uuid.UUID, 0, len(args))
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid task ID %q: %w", arg, err)
			}
			taskIDs = append(taskIDs, id)
		}

		date, err := resolveDate(bulkDate)
		if err != nil {
			return err
		}

		result, err := app.CompleteTasksBulkHandler.Handle(cmd.Context(), commands.CompleteTasksBulkCommand{
			TaskIDs: taskIDs,
			UserID:  app.CurrentUserID,
			Date:    date,
		})
		if err != nil {
			return fmt.Errorf("failed to complete tasks: %w", err)
		}

		fmt.Printf("Completed %d of %d task(s), %d skipped\n",
			result.Completed, result.Requested, result.Skipped)
		return nil
	},
}

func init() {
	bulkCompleteCmd.Flags().StringVar(&bulkDate, "date", "", "completion day (YYYY-MM-DD, default today)")
}
