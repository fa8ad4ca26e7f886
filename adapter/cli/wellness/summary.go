package wellness

import (
	"fmt"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/wellness/application/queries"
	"github.com/spf13/cobra"
)

var summaryDays int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the trailing behavior window",
	Long: `Aggregate the trailing N days of behavior logs: how many days were
logged, mood distribution, exercise days and the average productivity
score.

Examples:
  cadence wellness summary
  cadence wellness summary --days 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.BehaviorSummaryHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		summary, err := app.BehaviorSummaryHandler.Handle(cmd.Context(), queries.BehaviorSummaryQuery{
			UserID: app.CurrentUserID,
			Days:   summaryDays,
		})
		if err != nil {
			return fmt.Errorf("failed to build summary: %w", err)
		}

		fmt.Printf("\n  Last %d day(s), %d logged\n", summary.Days, summary.DaysLogged)
		fmt.Printf("  Avg productivity: %.1f\n", summary.AvgProductivity)
		fmt.Printf("  Exercise days:    %d\n", summary.ExerciseDays)
		if len(summary.MoodDistribution) > 0 {
			fmt.Println("  Moods:")
			for _, mood := range []string{"great", "good", "okay", "low", "bad"} {
				if count := summary.MoodDistribution[mood]; count > 0 {
					fmt.Printf("    %-5s %d\n", mood, count)
				}
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	summaryCmd.Flags().IntVar(&summaryDays, "days", 7, "window size in days (1-90)")
}
