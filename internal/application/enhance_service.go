package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type OutcomeKind string

const (
	OutcomeEnriched    OutcomeKind = "enriched"
	OutcomeInactive    OutcomeKind = "inactive"
	OutcomeEmpty       OutcomeKind = "empty"
	OutcomeUnavailable OutcomeKind = "unavailable"
)

// Outcome is the result of one enrichment request. Err and Skips are diagnostics
// only; an Outcome never signals failure to the caller.
type Outcome struct {
	Kind    OutcomeKind
	Payload *domain.EnrichmentPayload
	Skips   []domain.Skip
	Err     error
}

type RoleClassifier interface {
	Classify(text string) []domain.RoleSuggestion
}

type KnowledgeRetriever interface {
	Retrieve(ctx context.Context, text string) (Retrieval, error)
}

type EnhanceService struct {
	status     ports.StatusRepository
	classifier RoleClassifier
	retriever  KnowledgeRetriever
	audit      ports.AuditRepository
	policy     AuditPolicy
	clock      ports.Clock
	ids        ports.IDGenerator
	logger     *zap.Logger
}

func NewEnhanceService(
	status ports.StatusRepository,
	classifier RoleClassifier,
	retriever KnowledgeRetriever,
	audit ports.AuditRepository,
	policy AuditPolicy,
	clock ports.Clock,
	ids ports.IDGenerator,
	logger *zap.Logger,
) *EnhanceService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if ids == nil {
		ids = ports.TimestampIDs{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EnhanceService{
		status:     status,
		classifier: classifier,
		retriever:  retriever,
		audit:      audit,
		policy:     policy,
		clock:      clock,
		ids:        ids,
		logger:     logger,
	}
}

func (s *EnhanceService) Enhance(ctx context.Context, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Kind: OutcomeEmpty}
	}

	status, err := s.status.LoadStatus(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.logger.Debug("framework status absent; enrichment skipped")
			return Outcome{Kind: OutcomeInactive}
		}
		s.logger.Warn("framework status unreadable; enrichment skipped", zap.Error(err))
		return Outcome{Kind: OutcomeInactive, Err: err}
	}
	if !status.IsActive() {
		return Outcome{Kind: OutcomeInactive}
	}

	payload, skips, err := s.run(ctx, text)
	if err != nil {
		s.logger.Warn("enhancement unavailable", zap.Error(err))
		return Outcome{Kind: OutcomeUnavailable, Skips: skips, Err: err}
	}

	s.record(ctx, text, payload)

	kind := OutcomeEnriched
	if payload.Trivial() {
		kind = OutcomeEmpty
	}

	return Outcome{Kind: kind, Payload: &payload, Skips: skips}
}

// run evaluates the classifier and retriever concurrently. Panics in either stage,
// or in composition, come back as errors.
func (s *EnhanceService) run(ctx context.Context, text string) (domain.EnrichmentPayload, []domain.Skip, error) {
	var (
		suggestions []domain.RoleSuggestion
		retrieval   Retrieval
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverStage("classify", &err)
		suggestions = s.classifier.Classify(text)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverStage("retrieve", &err)
		retrieval, err = s.retriever.Retrieve(gctx, text)
		if err != nil {
			return fmt.Errorf("retrieve shared knowledge: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.EnrichmentPayload{}, retrieval.Skips, err
	}

	payload, err := composeSafely(suggestions, retrieval.Items)
	if err != nil {
		return domain.EnrichmentPayload{}, retrieval.Skips, err
	}

	return payload, retrieval.Skips, nil
}

func (s *EnhanceService) record(ctx context.Context, text string, payload domain.EnrichmentPayload) {
	if s.audit == nil || !s.policy.ShouldRecord(payload) {
		return
	}

	now := s.clock.Now()
	entry := domain.AuditEntry{
		OriginalPrompt: text,
		Enhancement:    payload,
		Timestamp:      now,
	}

	var err error
	for attempt := 0; attempt < maxRecordIDAttempts; attempt++ {
		entry.ID = s.ids.NewID(now)
		err = s.audit.AppendAudit(ctx, entry)
		if !errors.Is(err, domain.ErrRecordExists) {
			break
		}
	}
	if err != nil {
		s.logger.Warn("audit entry not written", zap.String("id", entry.ID), zap.Error(err))
	}
}

func composeSafely(suggestions []domain.RoleSuggestion, retrieved []domain.RetrievedKnowledge) (payload domain.EnrichmentPayload, err error) {
	defer recoverStage("compose", &err)
	return Compose(suggestions, retrieved), nil
}

func recoverStage(stage string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s stage panicked: %v", stage, r)
	}
}
