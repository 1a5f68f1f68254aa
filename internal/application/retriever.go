package application

import (
	"context"
	"fmt"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
	"go.uber.org/zap"
)

type Retrieval struct {
	Items []domain.RetrievedKnowledge
	Skips []domain.Skip
}

type Retriever struct {
	knowledge ports.KnowledgeRepository
	logger    *zap.Logger
}

func NewRetriever(knowledge ports.KnowledgeRepository, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Retriever{knowledge: knowledge, logger: logger}
}

// Retrieve returns shared knowledge whose keywords occur in text, in listing order.
// An unreadable shared namespace yields an empty result with a skip rather than an
// error; only cancellation is returned.
func (r *Retriever) Retrieve(ctx context.Context, text string) (Retrieval, error) {
	records, skips, err := r.knowledge.ListSharedKnowledge(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Retrieval{}, fmt.Errorf("list shared knowledge: %w", ctxErr)
		}

		skip := domain.Skip{Namespace: domain.NamespaceShared, Reason: domain.SkipUnavailable, Err: err}
		r.logSkips([]domain.Skip{skip})
		return Retrieval{Items: []domain.RetrievedKnowledge{}, Skips: []domain.Skip{skip}}, nil
	}
	r.logSkips(skips)

	items := []domain.RetrievedKnowledge{}
	for _, record := range records {
		if !record.Matches(text) {
			continue
		}
		items = append(items, domain.RetrievedKnowledge{
			SourceID:     record.ID,
			Summary:      record.Summary,
			RelevanceTag: domain.RelevanceSharedKnowledge,
		})
	}

	return Retrieval{Items: items, Skips: skips}, nil
}

func (r *Retriever) logSkips(skips []domain.Skip) {
	for _, skip := range skips {
		r.logger.Warn("shared knowledge skipped",
			zap.String("namespace", skip.Namespace.String()),
			zap.String("key", skip.Key),
			zap.String("reason", string(skip.Reason)),
			zap.Error(skip.Err),
		)
	}
}
