package schedule

import (
	"fmt"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var bulkDate string

var bulkCompleteCmd = &cobra.Command{
	Use:   "complete-bulk <schedule-id>...",
	Short: "Mark several schedule occurrences as completed",
	Long: `Record completions for several schedules on the same day in one
transaction. Schedules that do not occur on the day, or that are
already completed, are skipped rather than failing the batch.

Examples:
  cadence schedule complete-bulk 4f2a... 9c1b... --date 2026-08-30`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CompleteBulkHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		scheduleIDs := make([]uuid.UUID, 0, len(args))
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid schedule ID %q: %w", arg, err)
			}
			scheduleIDs = append(scheduleIDs, id)
		}

		date, err := resolveDate(bulkDate)
		if err != nil {
			return err
		}

		result, err := app.CompleteBulkHandler.Handle(cmd.Context(), commands.CompleteBulkCommand{
			ScheduleIDs: scheduleIDs,
			UserID:      app.CurrentUserID,
			Date:        date,
		})
		if err != nil {
			return fmt.Errorf("failed to complete occurrences: %w", err)
		}

		fmt.Printf("Completed %d of %d occurrence(s), %d skipped\n",
			result.Completed, result.Requested, result.Skipped)
		return nil
	},
}

func init() {
	bulkCompleteCmd.Flags().StringVar(&bulkDate, "date", "", "occurrence day (YYYY-MM-DD, default today)")
}
