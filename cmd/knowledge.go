package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newKnowledgeCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage shared knowledge retrieved during enrichment",
	}

	cmd.AddCommand(
		newKnowledgeAddCmd(app),
		newKnowledgeListCmd(app),
	)

	return cmd
}

func newKnowledgeAddCmd(app *app) *cobra.Command {
	var (
		id       string
		keywords []string
		summary  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store or replace a shared knowledge entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entry, err := app.knowledge.Add(cmd.Context(), id, keywords, summary)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stored %s (%s)\n", entry.ID, strings.Join(entry.Keywords, ", "))
			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "entry identifier")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords that select this entry (comma-separated or repeated)")
	cmd.Flags().StringVar(&summary, "summary", "", "summary returned when the entry matches")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("keywords")

	return cmd
}

func newKnowledgeListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shared knowledge entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, skips, err := app.knowledge.List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				type item struct {
					ID       string   `json:"id"`
					Keywords []string `json:"keywords"`
					Summary  string   `json:"summary"`
				}
				items := make([]item, 0, len(entries))
				for _, entry := range entries {
					items = append(items, item{ID: entry.ID, Keywords: entry.Keywords, Summary: entry.Summary})
				}
				return writeJSON(cmd, items)
			}

			for _, entry := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", entry.ID, strings.Join(entry.Keywords, ","), entry.Summary)
			}
			for _, skip := range skips {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s\n", skip)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	return cmd
}
