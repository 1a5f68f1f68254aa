package cmd

import (
	"os/signal"
	"syscall"

	"github.com/bnema/cognition-hooks/internal/adapters/mcptools"
	"github.com/bnema/cognition-hooks/internal/rules"
	"github.com/bnema/cognition-hooks/internal/version"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the enrichment pipeline as MCP tools over stdio",
		Long:  "Runs an MCP server on stdin/stdout. When rules.path is configured the rule table is reloaded on change.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s := mcptools.NewServer(version.Version, mcptools.Dependencies{
				Enhancer:   app.enhancer,
				Classifier: app.classifier,
				Sessions:   app.sessions,
				Knowledge:  app.knowledge,
				Memories:   app.roleMemory,
			})

			g, gctx := errgroup.WithContext(ctx)
			if app.cfg.RulesPath != "" {
				watcher := rules.NewWatcher(app.cfg.RulesPath, app.logger.Named("rules"), app.classifier.SetRules)
				g.Go(func() error {
					return watcher.Run(gctx)
				})
			}

			g.Go(func() error {
				defer stop()
				stdio := server.NewStdioServer(s)
				stdio.SetErrorLogger(zap.NewStdLog(app.logger.Named("mcp")))
				err := stdio.Listen(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil && gctx.Err() != nil {
					return nil
				}
				return err
			})

			app.logger.Info("mcp server listening on stdio", zap.String("rules_path", app.cfg.RulesPath))
			return g.Wait()
		},
	}
}

