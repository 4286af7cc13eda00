package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studia-app/studia/internal/cli/formatter"
)

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show points, level, streak, and badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.Stats.UserStats(context.Background(), app.UserID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatStats(stats))
			return nil
		},
	}
}
