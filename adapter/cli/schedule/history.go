package schedule

import (
	"fmt"
	"strings"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the completion and missed ledger",
	Long: `List recorded completions and missed occurrences, most recent first.

Examples:
  cadence schedule history
  cadence schedule history --limit 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CompletionHistoryHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		entries, err := app.CompletionHistoryHandler.Handle(cmd.Context(), queries.CompletionHistoryQuery{
			UserID: app.CurrentUserID,
			Limit:  historyLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No ledger entries yet.")
			return nil
		}

		fmt.Println(strings.Repeat("-", 60))
		for _, entry := range entries {
			fmt.Printf("  %s  %-9s  %s\n", entry.Date, entry.Status, entry.ScheduleID)
		}
		fmt.Println(strings.Repeat("-", 60))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum entries to show (0 means all)")
}
