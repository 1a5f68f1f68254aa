package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher reloads a rule table file whenever it changes on disk. A table that
// fails to parse is logged and the previously applied rules stay in place.
type Watcher struct {
	path     string
	logger   *zap.Logger
	apply    func([]domain.RoleRule)
	debounce time.Duration
}

func NewWatcher(path string, logger *zap.Logger, apply func([]domain.RoleRule)) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		path:     path,
		logger:   logger,
		apply:    apply,
		debounce: defaultDebounce,
	}
}

// Run blocks until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve rule table path: %w", err)
	}
	target = filepath.Clean(target)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create rule table watcher: %w", err)
	}
	defer fsw.Close()

	// Editors replace files by rename, so watch the parent directory.
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	w.logger.Debug("watching rule table", zap.String("path", target))

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			reload = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("rule table watcher error", zap.Error(err))

		case <-reload:
			reload = nil
			w.reload(target)
		}
	}
}

func (w *Watcher) reload(path string) {
	parsed, err := Load(path)
	if err != nil {
		w.logger.Warn("rule table reload failed; keeping current rules", zap.String("path", path), zap.Error(err))
		return
	}

	w.apply(parsed)
	w.logger.Info("rule table reloaded", zap.String("path", path), zap.Int("rules", len(parsed)))
}
