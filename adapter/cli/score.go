package cli

import (
	"fmt"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/spf13/cobra"
)

var scoreDate string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Explain the productivity score for a day",
	Long: `Show the productivity score for a day broken down into its base
completion score, penalties and bonuses, with tips on what to improve.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Scorer == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		day, err := resolveDay(scoreDate)
		if err != nil {
			return err
		}
		if day.IsZero() {
			day = sharedDomain.Today()
		}

		breakdown, err := app.Scorer.ExplainDay(cmd.Context(), app.CurrentUserID, day)
		if err != nil {
			return fmt.Errorf("failed to explain score: %w", err)
		}

		fmt.Printf("Productivity score for %s\n\n", day)
		fmt.Printf("  Base (completion): %d\n", breakdown.BaseScore)
		for _, p := range breakdown.Penalties {
			fmt.Printf("  %+d  %s\n", p.Impact, p.Message)
		}
		for _, b := range breakdown.Bonuses {
			fmt.Printf("  %+d  %s\n", b.Impact, b.Message)
		}
		fmt.Printf("  Final: %d\n", breakdown.FinalScore)

		if len(breakdown.Tips) > 0 {
			fmt.Println("\nTips:")
			for _, tip := range breakdown.Tips {
				fmt.Printf("  - %s\n", tip)
			}
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreDate, "date", "", "Day to explain (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(scoreCmd)
}
