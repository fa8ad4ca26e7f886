package wellness

import (
	"errors"
	"fmt"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/wellness/application/queries"
	"github.com/cadencelabs/cadence/internal/wellness/domain"
	"github.com/spf13/cobra"
)

var showDate string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a day's behavior log",
	Long: `Display the behavior log for a day together with the productivity
score derived from it.

Examples:
  cadence wellness show
  cadence wellness show --date 2026-08-30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetBehaviorHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		date, err := resolveDate(showDate)
		if err != nil {
			return err
		}

		log, err := app.GetBehaviorHandler.Handle(cmd.Context(), queries.GetBehaviorQuery{
			UserID: app.CurrentUserID,
			Date:   date,
		})
		if errors.Is(err, domain.ErrBehaviorLogNotFound) {
			fmt.Println("No behavior logged for that day.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load behavior log: %w", err)
		}

		fmt.Printf("\n  %s\n", log.Date)
		fmt.Printf("  Mood:         %s\n", log.Mood)
		if log.SleepHours != nil {
			fmt.Printf("  Sleep:        %.1fh\n", *log.SleepHours)
		}
		fmt.Printf("  Exercise:     %t\n", log.Exercise)
		if log.Notes != "" {
			fmt.Printf("  Notes:        %s\n", log.Notes)
		}
		fmt.Printf("  Productivity: %d\n\n", log.ProductivityScore)
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showDate, "date", "", "day to show (YYYY-MM-DD, default today)")
}
