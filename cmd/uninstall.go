package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUninstallCmd(app *app) *cobra.Command {
	var keepMemory bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the framework store",
		Long: "Removes the framework status, role memory, shared knowledge and session records. " +
			"With --keep-memory only the memory and communication directories survive. " +
			"The sqlite backend keeps its database file with the remaining records.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.maintenance.Uninstall(cmd.Context(), keepMemory)
			if err != nil {
				return fmt.Errorf("uninstallation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "CodeCognition framework uninstalled (%d records removed)\n", result.Total())
			if result.KeptMemory {
				_, _ = fmt.Fprintln(out, "Memory and communication records kept")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepMemory, "keep-memory", false, "keep role memory, shared knowledge and session logs")

	return cmd
}
