package wellness

import (
	"fmt"
	"strings"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/wellness/application/commands"
	"github.com/cadencelabs/cadence/internal/wellness/domain"
	"github.com/spf13/cobra"
)

var (
	logDate     string
	logMood     string
	logSleep    float64
	logExercise bool
	logNotes    string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log behavior for a day",
	Long: `Record mood, sleep and exercise for a day. Logging the same day
again overwrites the earlier entry.

Examples:
  cadence wellness log --mood good --sleep 7.5 --exercise
  cadence wellness log --mood low --sleep 4 --date 2026-08-30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.LogBehaviorHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		mood := domain.Mood(strings.ToLower(logMood))
		if !domain.IsValidMood(mood) {
			return fmt.Errorf("invalid mood %q, expected great, good, okay, low or bad", logMood)
		}

		date, err := resolveDate(logDate)
		if err != nil {
			return err
		}

		var sleepHours *float64
		if cmd.Flags().Changed("sleep") {
			sleepHours = &logSleep
		}

		result, err := app.LogBehaviorHandler.Handle(cmd.Context(), commands.LogBehaviorCommand{
			UserID:     app.CurrentUserID,
			Date:       date,
			Mood:       mood,
			SleepHours: sleepHours,
			Exercise:   logExercise,
			Notes:      logNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to log behavior: %w", err)
		}

		if result.Created {
			fmt.Printf("Behavior logged for %s\n", result.Date)
		} else {
			fmt.Printf("Behavior updated for %s\n", result.Date)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "day to log (YYYY-MM-DD, default today)")
	logCmd.Flags().StringVar(&logMood, "mood", "", "mood: great, good, okay, low or bad (required)")
	logCmd.Flags().Float64Var(&logSleep, "sleep", 0, "hours slept")
	logCmd.Flags().BoolVar(&logExercise, "exercise", false, "whether you exercised")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "free-form notes")
	_ = logCmd.MarkFlagRequired("mood")
}
