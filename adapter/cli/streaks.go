package cli

import (
	"fmt"
	"sort"
	"strings"

	insightsQueries "github.com/cadencelabs/cadence/internal/insights/application/queries"
	"github.com/spf13/cobra"
)

var streaksCalendarDays int

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Show perfect-day streaks",
	Long: `Display the current and longest perfect-day streaks plus a trailing
calendar of perfect days. A day is perfect when it had workload and
everything applicable on it was completed.

Examples:
  cadence streaks
  cadence streaks --days 14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetStreaksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		streaks, err := app.GetStreaksHandler.Handle(cmd.Context(), insightsQueries.GetStreaksQuery{
			UserID:       app.CurrentUserID,
			CalendarDays: streaksCalendarDays,
		})
		if err != nil {
			return fmt.Errorf("failed to load streaks: %w", err)
		}

		fmt.Println()
		fmt.Printf("  Current streak: %d day(s)", streaks.CurrentStreak)
		if streaks.IsActive {
			fmt.Print("  (active)")
		}
		fmt.Println()
		fmt.Printf("  Longest streak: %d day(s)\n", streaks.LongestStreak)
		fmt.Println(strings.Repeat("-", 40))

		days := make([]string, 0, len(streaks.Calendar))
		for day := range streaks.Calendar {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			mark := " "
			if streaks.Calendar[day] {
				mark = "*"
			}
			fmt.Printf("  %s  %s\n", day, mark)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	streaksCmd.Flags().IntVar(&streaksCalendarDays, "days", 0, "calendar window in days (default 30)")
	rootCmd.AddCommand(streaksCmd)
}
