package schedule

import (
	"fmt"
	"time"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var completeDate string

var completeCmd = &cobra.Command{
	Use:   "complete <schedule-id>",
	Short: "Mark a schedule occurrence as completed",
	Long: `Record a completion for one occurrence of a schedule.

The date must be an occurrence day of the schedule and must not lie in
the future. A completion overrides an earlier missed mark for the same
day.

Examples:
  cadence schedule complete 4f2a...
  cadence schedule complete 4f2a... --date 2026-08-30`,
	Aliases: []string{"done"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CompleteOccurrenceHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		scheduleID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid schedule ID: %w", err)
		}

		date, err := resolveDate(completeDate)
		if err != nil {
			return err
		}

		result, err := app.CompleteOccurrenceHandler.Handle(cmd.Context(), commands.CompleteOccurrenceCommand{
			ScheduleID: scheduleID,
			UserID:     app.CurrentUserID,
			Date:       date,
		})
		if err != nil {
			return fmt.Errorf("failed to complete occurrence: %w", err)
		}

		fmt.Printf("Occurrence completed for %s\n", result.CompletedOn)
		return nil
	},
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
	completeCmd.Flags().StringVar(&completeDate, "date", "", "occurrence day (YYYY-MM-DD, default today)")
}
