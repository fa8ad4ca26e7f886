package schedule

import (
	"fmt"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var undoDate string

var undoCmd = &cobra.Command{
	Use:   "undo <schedule-id>",
	Short: "Undo a recorded completion",
	Long: `Remove the completion recorded for one occurrence day. The day
becomes pending again (or missed, once the marker next covers it).

Examples:
  cadence schedule undo 4f2a... --date 2026-08-30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UndoCompletionHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		scheduleID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		date, err := resolveDate(undoDate)
		if err != nil {
			return err
		}

		if err := app.UndoCompletionHandler.Handle(cmd.Context(), commands.UndoCompletionCommand{
			ScheduleID: scheduleID,
			UserID:     app.CurrentUserID,
			Date:       date,
		}); err != nil {
			return fmt.Errorf("failed to undo completion: %w", err)
		}

		fmt.Println("Completion removed.")
		return nil
	},
}

func init() {
	undoCmd.Flags().StringVar(&undoDate, "date", "", "occurrence day (YYYY-MM-DD, default today)")
}
