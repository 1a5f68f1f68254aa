package cmd

import (
	"fmt"
	"time"

	"github.com/bnema/cognition-hooks/internal/application"
	"github.com/spf13/cobra"
)

func newCleanCmd(app *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove session records and audit entries older than --days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 0 {
				return fmt.Errorf("--days must be zero or positive, got %d", days)
			}

			result, err := app.maintenance.Prune(cmd.Context(), time.Duration(days)*24*time.Hour)
			// Partial failures still removed some records; report them before the error.
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleaned %d old files\n", result.Total())
			return err
		},
	}

	cmd.Flags().IntVar(&days, "days", int(application.DefaultRetention/(24*time.Hour)), "retention window in days")

	return cmd
}
