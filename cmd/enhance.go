package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bnema/cognition-hooks/internal/adapters/hook"
	"github.com/bnema/cognition-hooks/internal/application"
	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/spf13/cobra"
)

type outcomeOutput struct {
	Kind    application.OutcomeKind   `json:"kind"`
	Payload *domain.EnrichmentPayload `json:"payload,omitempty"`
	Skips   []string                  `json:"skips,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

func newEnhanceCmd(app *app) *cobra.Command {
	var (
		prompt string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:         "enhance",
		Short:       "Enrich a submitted prompt with role suggestions (prompt-submit hook)",
		Long:        "Reads the hook event {\"user_prompt\": \"...\"} from stdin, or --prompt, and prints a CodeCognition Context line when roles or shared knowledge match. Always exits 0.",
		Annotations: map[string]string{annotationHook: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.enhancer == nil {
				return nil
			}

			text := prompt
			if !cmd.Flags().Changed("prompt") {
				event, err := hook.ReadPromptEvent(cmd.InOrStdin())
				if err != nil {
					reportEnhanceError(cmd.ErrOrStderr(), err)
					return nil
				}
				text = event.Text()
			}

			outcome := app.enhancer.Enhance(cmd.Context(), text)
			if outcome.Err != nil {
				reportEnhanceError(cmd.ErrOrStderr(), outcome.Err)
			}

			if asJSON {
				writeOutcomeJSON(cmd, outcome)
				return nil
			}

			if outcome.Kind != application.OutcomeEnriched || outcome.Payload == nil {
				return nil
			}

			line, err := hook.FormatContext(*outcome.Payload)
			if err != nil {
				reportEnhanceError(cmd.ErrOrStderr(), err)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "prompt text (skips reading the hook event from stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full outcome as JSON")

	return cmd
}

func writeOutcomeJSON(cmd *cobra.Command, outcome application.Outcome) {
	out := outcomeOutput{Kind: outcome.Kind, Payload: outcome.Payload}
	for _, skip := range outcome.Skips {
		out.Skips = append(out.Skips, skip.String())
	}
	if outcome.Err != nil {
		out.Error = outcome.Err.Error()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		reportEnhanceError(cmd.ErrOrStderr(), err)
	}
}

func reportEnhanceError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Context enhancement error: %v\n", err)
}
