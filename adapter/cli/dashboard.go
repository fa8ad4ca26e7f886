package cli

import (
	"fmt"
	"strings"

	insightsQueries "github.com/cadencelabs/cadence/internal/insights/application/queries"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/spf13/cobra"
)

var dashboardDate string

var dashboardCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the dashboard for one day",
	Long: `Display the composed view of a day: the timeline of scheduled
occurrences and unscheduled tasks, headline counters, daily stats
and the productivity score.

Examples:
  cadence today
  cadence today --date 2026-08-30`,
	Aliases: []string{"dashboard", "dash", "day"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.DashboardHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		day, err := resolveDay(dashboardDate)
		if err != nil {
			return err
		}

		dashboard, err := app.DashboardHandler.HandleDay(cmd.Context(), insightsQueries.GetDayDashboardQuery{
			UserID: app.CurrentUserID,
			Date:   day,
		})
		if err != nil {
			return fmt.Errorf("failed to build dashboard: %w", err)
		}

		fmt.Printf("\n  %s\n", dashboard.Date)
		fmt.Println(strings.Repeat("=", 52))

		if len(dashboard.Timeline) == 0 {
			fmt.Println("  Nothing scheduled.")
		}
		for _, item := range dashboard.Timeline {
			window := "        all day"
			if item.StartTime != "" {
				window = fmt.Sprintf("%s - %s", item.StartTime, item.EndTime)
			}
			fmt.Printf("  %s %s  %s\n", statusIcon(item.Status), window, item.Title)
		}

		fmt.Println(strings.Repeat("-", 52))
		fmt.Printf("  total %d  completed %d  missed %d  pending %d\n",
			dashboard.Overview.Total,
			dashboard.Overview.Completed,
			dashboard.Overview.Missed,
			dashboard.Overview.Pending,
		)
		fmt.Printf("  completion %d%%  productivity %d\n",
			dashboard.Stats.Score,
			dashboard.ProductivityScore,
		)
		fmt.Println()
		return nil
	},
}

var weekDate string

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show stats for the week containing a date",
	Long: `Display per-day stats and the aggregate completion rate for the
Monday-to-Sunday week containing the given date (default today).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.DashboardHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		day, err := resolveDay(weekDate)
		if err != nil {
			return err
		}

		dashboard, err := app.DashboardHandler.HandleWeek(cmd.Context(), insightsQueries.GetWeekDashboardQuery{
			UserID: app.CurrentUserID,
			Date:   day,
		})
		if err != nil {
			return fmt.Errorf("failed to build week dashboard: %w", err)
		}

		printRange(dashboard)
		return nil
	},
}

var monthDate string

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show stats for the month containing a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.DashboardHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		day, err := resolveDay(monthDate)
		if err != nil {
			return err
		}

		dashboard, err := app.DashboardHandler.HandleMonth(cmd.Context(), insightsQueries.GetMonthDashboardQuery{
			UserID: app.CurrentUserID,
			Date:   day,
		})
		if err != nil {
			return fmt.Errorf("failed to build month dashboard: %w", err)
		}

		printRange(dashboard)
		return nil
	},
}

func printRange(dashboard *insightsQueries.RangeDashboardDTO) {
	fmt.Printf("\n  %s .. %s\n", dashboard.From, dashboard.To)
	fmt.Println(strings.Repeat("=", 52))
	for _, d := range dashboard.Days {
		if d.Stats.IsZero() {
			fmt.Printf("  %s   -\n", d.Date)
			continue
		}
		fmt.Printf("  %s   %2d/%2d done, %d missed, score %d\n",
			d.Date, d.Stats.Completed, d.Stats.Total, d.Stats.Missed, d.Stats.Score)
	}
	fmt.Println(strings.Repeat("-", 52))
	fmt.Printf("  total %d  completed %d  missed %d  rate %d%%\n",
		dashboard.Total, dashboard.Completed, dashboard.Missed, dashboard.CompletionRate)
	fmt.Println()
}

func statusIcon(status insightsQueries.ItemStatus) string {
	switch status {
	case insightsQueries.StatusCompleted:
		return "[x]"
	case insightsQueries.StatusMissed:
		return "[!]"
	default:
		return "[ ]"
	}
}

// resolveDay parses a YYYY-MM-DD flag value, empty meaning the zero Day
// so the handler substitutes today.
func resolveDay(value string) (sharedDomain.Day, error) {
	if value == "" {
		return sharedDomain.Day{}, nil
	}
	day, err := sharedDomain.ParseDay(value)
	if err != nil {
		return sharedDomain.Day{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return day, nil
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardDate, "date", "", "day to show (YYYY-MM-DD, default today)")
	weekCmd.Flags().StringVar(&weekDate, "date", "", "any day in the week (YYYY-MM-DD, default today)")
	monthCmd.Flags().StringVar(&monthDate, "date", "", "any day in the month (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(monthCmd)
}
