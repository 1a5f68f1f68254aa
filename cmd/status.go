package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	statusadapter "github.com/bnema/cognition-hooks/internal/adapters/render/status"
	"github.com/bnema/cognition-hooks/internal/application"
	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/spf13/cobra"
)

type statusOutput struct {
	Initialized  bool         `json:"initialized"`
	Active       bool         `json:"active"`
	SessionID    string       `json:"session_id,omitempty"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	Root         string       `json:"root"`
	Backend      string       `json:"backend"`
	SessionCount int          `json:"session_count"`
	MemoryCount  int          `json:"memory_count"`
	RuleCount    int          `json:"rule_count"`
	Roles        []roleOutput `json:"roles"`
	Skipped      []string     `json:"skipped,omitempty"`
}

type roleOutput struct {
	Role            string `json:"role"`
	Description     string `json:"description"`
	HasMemory       bool   `json:"has_memory"`
	LearnedPatterns int    `json:"learned_patterns"`
	KnowledgeAreas  int    `json:"knowledge_areas"`
}

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show framework status, role memory and session counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			overview, err := app.overview.Overview(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, toStatusOutput(app, overview))
			}

			rendered, err := app.renderOverview(overview, statusadapter.RenderOptions{
				Now:  app.now(),
				Root: app.cfg.Store.Root,
			})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func newRolesCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the specialist roles and what each has learned",
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles, err := app.overview.Roles(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, toRoleOutputs(roles))
			}

			rendered, err := app.renderRoles(roles)
			if err != nil {
				return fmt.Errorf("render roles: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print roles as JSON")
	cmd.AddCommand(newRolesLearnCmd(app))

	return cmd
}

func newRolesLearnCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "learn <role> <pattern>",
		Short: "Append a learned pattern to a role's memory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRoleID(args[0])
			if err != nil {
				return err
			}

			memory, err := app.roleMemory.RecordPattern(cmd.Context(), role, args[1])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d learned patterns\n", role, len(memory.LearnedPatterns))
			return err
		},
	}
}

func toStatusOutput(app *app, overview application.Overview) statusOutput {
	out := statusOutput{
		Root:         app.cfg.Store.Root,
		Backend:      app.cfg.Store.Backend,
		SessionCount: overview.SessionCount,
		MemoryCount:  overview.MemoryCount(),
		RuleCount:    len(app.classifier.Rules()),
		Roles:        toRoleOutputs(overview.Roles),
	}
	if overview.Status != nil {
		startedAt := overview.Status.SessionStartedAt
		out.Initialized = true
		out.Active = overview.Status.IsActive()
		out.SessionID = string(overview.Status.SessionID)
		out.StartedAt = &startedAt
	}
	for _, skip := range overview.Skips {
		out.Skipped = append(out.Skipped, skip.String())
	}
	return out
}

func toRoleOutputs(roles []application.RoleOverview) []roleOutput {
	out := make([]roleOutput, 0, len(roles))
	for _, role := range roles {
		out = append(out, roleOutput{
			Role:            string(role.Role),
			Description:     role.Description,
			HasMemory:       role.HasMemory,
			LearnedPatterns: role.LearnedPatterns,
			KnowledgeAreas:  role.KnowledgeAreas,
		})
	}
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
