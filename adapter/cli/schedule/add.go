package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/scheduling/application/commands"
	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	addDate       string
	addStart      string
	addEnd        string
	addRecurrence string
	addUntil      string
	addOnDays     string
	addNotes      string
)

var addCmd = &cobra.Command{
	Use:   "add <task-id>",
	Short: "Schedule a task",
	Long: `Schedule a task for a time window on a date, optionally recurring.

Weekly schedules repeat on the given ISO weekdays (1=Monday .. 7=Sunday);
monthly schedules repeat on the start date's day of month.

Examples:
  cadence schedule add 4f2a... --date 2026-09-01 --start 09:00 --end 10:00
  cadence schedule add 4f2a... --date 2026-09-01 --start 07:00 --end 07:30 --recurrence DAILY
  cadence schedule add 4f2a... --date 2026-09-01 --start 18:00 --end 19:00 --recurrence WEEKLY --on 1,3,5 --until 2026-12-31`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateScheduleHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		scheduleDate, err := time.Parse("2006-01-02", addDate)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", addDate, err)
		}

		var repeatUntil *time.Time
		if addUntil != "" {
			until, err := time.Parse("2006-01-02", addUntil)
			if err != nil {
				return fmt.Errorf("invalid until date %q, expected YYYY-MM-DD: %w", addUntil, err)
			}
			repeatUntil = &until
		}

		repeatOnDays, err := parseWeekdays(addOnDays)
		if err != nil {
			return err
		}

		schedule, err := app.CreateScheduleHandler.Handle(cmd.Context(), commands.CreateScheduleCommand{
			UserID:       app.CurrentUserID,
			TaskID:       taskID,
			ScheduleDate: scheduleDate,
			StartTime:    addStart,
			EndTime:      addEnd,
			Recurrence:   domain.Recurrence(strings.ToUpper(addRecurrence)),
			RepeatUntil:  repeatUntil,
			RepeatOnDays: repeatOnDays,
			Notes:        addNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to create schedule: %w", err)
		}

		fmt.Println("Schedule created!")
		fmt.Printf("  ID:         %s\n", schedule.ID())
		fmt.Printf("  Date:       %s\n", schedule.ScheduleDate())
		fmt.Printf("  Window:     %s - %s\n", schedule.StartTime(), schedule.EndTime())
		fmt.Printf("  Recurrence: %s\n", schedule.Recurrence())
		return nil
	},
}

// parseWeekdays parses a comma-separated list of ISO weekdays (1-7).
func parseWeekdays(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 1 || day > 7 {
			return nil, fmt.Errorf("invalid weekday %q, expected 1 (Monday) to 7 (Sunday)", part)
		}
		days = append(days, day)
	}
	return days, nil
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "schedule date (YYYY-MM-DD, required)")
	addCmd.Flags().StringVar(&addStart, "start", "", "start time (HH:MM, required)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "end time (HH:MM, required)")
	addCmd.Flags().StringVar(&addRecurrence, "recurrence", "NONE", "recurrence: NONE, DAILY, WEEKLY or MONTHLY")
	addCmd.Flags().StringVar(&addUntil, "until", "", "last day the schedule repeats (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addOnDays, "on", "", "ISO weekdays for WEEKLY, comma separated (e.g. 1,3,5)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes")
	_ = addCmd.MarkFlagRequired("date")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("end")
}
