package cmd

import (
	"fmt"

	"github.com/bnema/cognition-hooks/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// annotationNoWire marks commands that run without a store.
	annotationNoWire = "cog/no-wire"
	// annotationHook marks hook commands, which must never fail the host session.
	annotationHook = "cog/hook"
)

func Execute() error {
	rootCmd, finish := newRootCmd()
	defer finish()
	return rootCmd.Execute()
}

// newRootCmd returns the command tree and a finish func that closes the store and
// flushes the logger. Callers defer finish so cleanup also runs when RunE fails.
func newRootCmd() (*cobra.Command, func()) {
	var (
		verbose bool
		logger  *zap.Logger
	)

	v := viper.New()
	state := &app{}

	rootCmd := &cobra.Command{
		Use:           "cog",
		Short:         "Cognition hooks: role suggestions and shared memory for assistant sessions",
		Long:          "cog initializes a local multi-role framework store at session start and enriches each submitted prompt with suggested specialist roles and matching shared knowledge.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cfgErr := config.Load(v)

			level := cfg.LogLevel
			if cfgErr != nil {
				level = zapcore.WarnLevel
			}
			if verbose {
				level = zapcore.DebugLevel
			}

			var err error
			logger, err = newLogger(level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			if cmd.Annotations[annotationNoWire] != "" {
				return nil
			}

			if cfgErr == nil {
				wired, err := wireApp(cfg, logger)
				if err == nil {
					*state = *wired
					return nil
				}
				cfgErr = err
			}

			if cmd.Annotations[annotationHook] != "" {
				logger.Warn("framework unavailable; hook disabled", zap.Error(cfgErr))
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Context enhancement error: %v\n", cfgErr)
				return nil
			}
			return cfgErr
		},
	}

	finish := func() {
		if err := state.close(); err != nil && logger != nil {
			logger.Warn("close record store", zap.Error(err))
		}
		if logger != nil {
			_ = logger.Sync()
		}
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default <store root>/config.toml)")
	flags.String("store-root", "", "framework store root (default ~/.claude/CodeCognition)")
	flags.String("backend", "", "record store backend: file, sqlite or memory")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")

	_ = v.BindPFlag(config.KeyConfigFile, flags.Lookup("config"))
	_ = v.BindPFlag(config.KeyStoreRoot, flags.Lookup("store-root"))
	_ = v.BindPFlag(config.KeyStoreBackend, flags.Lookup("backend"))

	rootCmd.AddCommand(
		newVersionCmd(),
		newSessionCmd(state),
		newEnhanceCmd(state),
		newClassifyCmd(state),
		newStatusCmd(state),
		newRolesCmd(state),
		newKnowledgeCmd(state),
		newCleanCmd(state),
		newUninstallCmd(state),
		newServeCmd(state),
	)

	return rootCmd, finish
}

// newLogger writes JSON logs to stderr; stdout carries hook replies.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
