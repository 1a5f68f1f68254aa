package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	statusadapter "github.com/bnema/cognition-hooks/internal/adapters/render/status"
	"github.com/bnema/cognition-hooks/internal/adapters/project"
	"github.com/bnema/cognition-hooks/internal/adapters/repo/records"
	"github.com/bnema/cognition-hooks/internal/adapters/store/file"
	"github.com/bnema/cognition-hooks/internal/adapters/store/memory"
	"github.com/bnema/cognition-hooks/internal/adapters/store/sqlite"
	"github.com/bnema/cognition-hooks/internal/application"
	"github.com/bnema/cognition-hooks/internal/config"
	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
	"github.com/bnema/cognition-hooks/internal/rules"
	"go.uber.org/zap"
)

type app struct {
	cfg    config.Config
	logger *zap.Logger

	closeStore func() error

	classifier  *application.Classifier
	sessions    *application.SessionService
	enhancer    *application.EnhanceService
	overview    *application.OverviewService
	knowledge   *application.KnowledgeService
	roleMemory  *application.RoleMemoryService
	maintenance *application.MaintenanceService

	renderOverview    func(application.Overview, statusadapter.RenderOptions) (string, error)
	renderRoles       func([]application.RoleOverview) (string, error)
	renderSuggestions func([]domain.RoleSuggestion) (string, error)
	now               func() time.Time
}

func wireApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	codec, err := records.CodecFor(cfg.Store.Format)
	if err != nil {
		return nil, fmt.Errorf("wire record codec: %w", err)
	}

	store, closeStore, err := openStoreFunc(cfg.Store, codec)
	if err != nil {
		return nil, fmt.Errorf("wire record store: %w", err)
	}

	table, err := rules.Load(cfg.RulesPath)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("wire role rules: %w", err)
	}

	repo := records.NewRepository(store, codec)
	clock := ports.SystemClock{}
	ids := ports.TimestampIDs{}
	classifier := application.NewClassifier(table)

	var audit ports.AuditRepository
	if cfg.Audit.Enabled {
		audit = repo
	}

	logger.Debug("framework wired",
		zap.String("root", cfg.Store.Root),
		zap.String("backend", cfg.Store.Backend),
		zap.String("format", codec.Name()),
		zap.Int("rules", len(table)),
		zap.String("config_file", cfg.ConfigFile),
	)

	return &app{
		cfg:        cfg,
		logger:     logger,
		closeStore: closeStore,
		classifier: classifier,
		sessions: application.NewSessionService(
			repo, repo, repo, project.NewLoader(cfg.ProjectDir), clock, ids, logger.Named("session"),
		),
		enhancer: application.NewEnhanceService(
			repo,
			classifier,
			application.NewRetriever(repo, logger.Named("retriever")),
			audit,
			application.AuditPolicy{Enabled: cfg.Audit.Enabled, LogTrivial: cfg.Audit.LogTrivial},
			clock,
			ids,
			logger.Named("enhance"),
		),
		overview:          application.NewOverviewService(repo, repo, repo),
		knowledge:         application.NewKnowledgeService(repo),
		roleMemory:        application.NewRoleMemoryService(repo, clock),
		maintenance:       application.NewMaintenanceService(repo, clock, logger.Named("maintenance")),
		renderOverview:    statusadapter.Render,
		renderRoles:       statusadapter.RenderRoles,
		renderSuggestions: statusadapter.RenderSuggestions,
		now:               time.Now,
	}, nil
}

// openStoreFunc is a package-level var to allow test injection.
var openStoreFunc = openStore

func openStore(cfg config.StoreConfig, codec records.Codec) (ports.RecordStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.New(filepath.Join(cfg.Root, sqlite.DefaultFileName))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendMemory:
		return memory.NewStore(), noop, nil
	default:
		store, err := file.NewStore(cfg.Root, codec.Extension())
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	}
}

func (a *app) close() error {
	if a == nil || a.closeStore == nil {
		return nil
	}
	closeStore := a.closeStore
	a.closeStore = nil
	return closeStore()
}
