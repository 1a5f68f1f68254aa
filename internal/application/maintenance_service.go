package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
	"go.uber.org/zap"
)

// DefaultRetention matches the cleanup window the hook tooling has always used.
const DefaultRetention = 7 * 24 * time.Hour

type PruneResult struct {
	Cutoff  time.Time
	Removed map[domain.Namespace]int
}

func (r PruneResult) Total() int {
	total := 0
	for _, n := range r.Removed {
		total += n
	}
	return total
}

type MaintenanceService struct {
	records ports.RecordMaintenance
	clock   ports.Clock
	logger  *zap.Logger
}

func NewMaintenanceService(records ports.RecordMaintenance, clock ports.Clock, logger *zap.Logger) *MaintenanceService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MaintenanceService{records: records, clock: clock, logger: logger}
}

// Prune removes session records and audit entries last written before now-olderThan.
// Role memory, shared knowledge and the framework status are never touched.
func (s *MaintenanceService) Prune(ctx context.Context, olderThan time.Duration) (PruneResult, error) {
	if olderThan < 0 {
		return PruneResult{}, fmt.Errorf("retention %s is negative", olderThan)
	}

	result := PruneResult{
		Cutoff:  s.clock.Now().Add(-olderThan),
		Removed: map[domain.Namespace]int{},
	}

	var errs []error
	for _, ns := range []domain.Namespace{domain.NamespaceSessions, domain.NamespaceAudit} {
		infos, err := s.records.ListRecords(ctx, ns)
		if err != nil {
			errs = append(errs, fmt.Errorf("list %s: %w", ns, err))
			continue
		}

		for _, info := range infos {
			if !info.ModTime.Before(result.Cutoff) {
				continue
			}
			if err := s.records.DeleteRecord(ctx, ns, info.Key); err != nil {
				errs = append(errs, fmt.Errorf("delete %s/%s: %w", ns, info.Key, err))
				continue
			}
			result.Removed[ns]++
		}
	}

	s.logger.Info("pruned records", zap.Time("cutoff", result.Cutoff), zap.Int("removed", result.Total()))
	return result, errors.Join(errs...)
}

// keptOnUninstall names the top-level store directories that hold role memory and
// session logs.
var keptOnUninstall = []string{"memory", "communication"}

type UninstallResult struct {
	Removed map[domain.Namespace]int
	// KeptMemory reports whether memory and communication records were preserved.
	KeptMemory bool
}

func (r UninstallResult) Total() int {
	total := 0
	for _, n := range r.Removed {
		total += n
	}
	return total
}

// Uninstall removes the framework status first so hooks go inactive even when a
// later step fails. With keepMemory, memory and communication records survive.
// Stores that own a directory tree also have their remaining files removed.
func (s *MaintenanceService) Uninstall(ctx context.Context, keepMemory bool) (UninstallResult, error) {
	result := UninstallResult{Removed: map[domain.Namespace]int{}, KeptMemory: keepMemory}

	namespaces := []domain.Namespace{domain.NamespaceRoot}
	if !keepMemory {
		namespaces = append(namespaces, domain.StoreNamespaces()...)
	}

	var errs []error
	for _, ns := range namespaces {
		infos, err := s.records.ListRecords(ctx, ns)
		if err != nil {
			errs = append(errs, fmt.Errorf("list %s: %w", ns, err))
			continue
		}

		for _, info := range infos {
			if err := s.records.DeleteRecord(ctx, ns, info.Key); err != nil {
				errs = append(errs, fmt.Errorf("delete %s/%s: %w", ns, info.Key, err))
				continue
			}
			result.Removed[ns]++
		}
	}

	if remover, ok := s.records.(ports.TreeRemover); ok && len(errs) == 0 {
		var keep []string
		if keepMemory {
			keep = keptOnUninstall
		}
		if err := remover.RemoveTree(ctx, keep...); err != nil {
			errs = append(errs, fmt.Errorf("remove store files: %w", err))
		}
	}

	s.logger.Info("uninstalled framework", zap.Bool("keep_memory", keepMemory), zap.Int("removed", result.Total()))
	return result, errors.Join(errs...)
}
