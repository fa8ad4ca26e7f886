// Package wellness provides the wellness CLI commands.
package wellness

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Cmd is the parent command for wellness operations.
var Cmd = &cobra.Command{
	Use:   "wellness",
	Short: "Log daily behavior and read derived scores",
	Long: `Log one behavior entry per day (mood, sleep, exercise) and read it
back decorated with the productivity score it influences.`,
	Aliases: []string{"well", "w"},
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
	Cmd.AddCommand(logCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(summaryCmd)
}
