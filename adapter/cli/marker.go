package cli

import (
	"fmt"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/spf13/cobra"
)

var markerDate string

var markerCmd = &cobra.Command{
	Use:   "marker",
	Short: "Operate the missed-occurrence marker",
}

var markerRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the missed marker once",
	Long: `Run the missed-occurrence batch once, outside its cron schedule.
By default it processes yesterday; --date targets another past day.
The run is idempotent, so rerunning a day is safe.

Examples:
  cadence marker run
  cadence marker run --date 2026-08-29`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.MissedMarker == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		var (
			marked int
			target sharedDomain.Day
			err    error
		)
		if markerDate == "" {
			target = sharedDomain.Today().AddDays(-1)
			marked, err = app.MissedMarker.Run(cmd.Context(), time.Now())
		} else {
			target, err = sharedDomain.ParseDay(markerDate)
			if err != nil {
				return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", markerDate, err)
			}
			marked, err = app.MissedMarker.RunFor(cmd.Context(), target)
		}
		if err != nil {
			return fmt.Errorf("marker run failed: %w", err)
		}

		fmt.Printf("Marked %d occurrence(s) as missed for %s\n", marked, target)
		return nil
	},
}

func init() {
	markerRunCmd.Flags().StringVar(&markerDate, "date", "", "target day (YYYY-MM-DD, default yesterday)")
	markerCmd.AddCommand(markerRunCmd)
	rootCmd.AddCommand(markerCmd)
}
