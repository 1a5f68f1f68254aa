package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/cognition-hooks/internal/application"
	"github.com/spf13/cobra"
)

type initSummary struct {
	Message              string `json:"message"`
	SessionID            string `json:"session_id"`
	AgentsAvailable      int    `json:"agents_available"`
	CommunicationActive  bool   `json:"communication_active"`
	MemorySystemActive   bool   `json:"memory_system_active"`
	ProjectContextLoaded bool   `json:"project_context_loaded"`
}

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start or end a framework session",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionEndCmd(app),
	)

	return cmd
}

func newSessionStartCmd(app *app) *cobra.Command {
	var summaryFile string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Initialize the store and mark a new session active (session-start hook)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			started, err := app.sessions.Start(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize framework: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "CodeCognition Framework Active")
			_, _ = fmt.Fprintf(out, "Session: %s\n", started.SessionID)
			_, _ = fmt.Fprintf(out, "%d specialized agents ready for coordination\n", len(started.RolesAvailable))

			if summaryFile == "" {
				return nil
			}
			return writeInitSummary(summaryFile, started)
		},
	}

	cmd.Flags().StringVar(&summaryFile, "summary-file", "", "also write a JSON initialization summary to this path")

	return cmd
}

func newSessionEndCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "Mark the framework inactive so prompts are no longer enriched",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ended, err := app.sessions.End(cmd.Context())
			if err != nil {
				return err
			}

			if !ended {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No active session")
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "CodeCognition Framework inactive")
			return err
		},
	}
}

func writeInitSummary(path string, started application.SessionStart) error {
	data, err := json.MarshalIndent(initSummary{
		Message:              "CodeCognition Framework Initialized",
		SessionID:            string(started.SessionID),
		AgentsAvailable:      len(started.RolesAvailable),
		CommunicationActive:  true,
		MemorySystemActive:   true,
		ProjectContextLoaded: started.ProjectContextLoaded,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode init summary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create init summary dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write init summary: %w", err)
	}

	return nil
}
