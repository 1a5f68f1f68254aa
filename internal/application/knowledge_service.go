package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
)

var ErrKnowledgeWithoutKeywords = errors.New("shared knowledge needs at least one keyword")

// KnowledgeService is the write path for shared knowledge that agents and users
// curate outside the enrichment pipeline.
type KnowledgeService struct {
	knowledge ports.KnowledgeRepository
}

func NewKnowledgeService(knowledge ports.KnowledgeRepository) *KnowledgeService {
	return &KnowledgeService{knowledge: knowledge}
}

func (s *KnowledgeService) Add(ctx context.Context, id string, keywords []string, summary string) (domain.SharedKnowledge, error) {
	record := domain.SharedKnowledge{
		ID:       strings.TrimSpace(id),
		Keywords: keywords,
		Summary:  strings.TrimSpace(summary),
	}
	record.NormalizeKeywords()
	if len(record.Keywords) == 0 {
		return domain.SharedKnowledge{}, ErrKnowledgeWithoutKeywords
	}

	if err := s.knowledge.SaveSharedKnowledge(ctx, record); err != nil {
		return domain.SharedKnowledge{}, fmt.Errorf("save shared knowledge %q: %w", record.ID, err)
	}

	return record, nil
}

func (s *KnowledgeService) List(ctx context.Context) ([]domain.SharedKnowledge, []domain.Skip, error) {
	records, skips, err := s.knowledge.ListSharedKnowledge(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list shared knowledge: %w", err)
	}
	return records, skips, nil
}
