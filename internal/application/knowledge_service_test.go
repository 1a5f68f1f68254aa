package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/cognition-hooks/internal/adapters/repo/records"
	"github.com/bnema/cognition-hooks/internal/adapters/store/memory"
	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeServiceAddAndList(t *testing.T) {
	t.Parallel()

	service := NewKnowledgeService(records.NewRepository(memory.NewStore(), records.JSONCodec{}))
	ctx := context.Background()

	added, err := service.Add(ctx, " cache-notes ", []string{"Cache", " eviction "}, "  LRU with TTL ")
	require.NoError(t, err)
	assert.Equal(t, domain.SharedKnowledge{ID: "cache-notes", Keywords: []string{"cache", "eviction"}, Summary: "LRU with TTL"}, added)

	listed, skips, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, skips)
	assert.Equal(t, []domain.SharedKnowledge{added}, listed)
}

func TestKnowledgeServiceAddValidation(t *testing.T) {
	t.Parallel()

	service := NewKnowledgeService(records.NewRepository(memory.NewStore(), records.JSONCodec{}))

	_, err := service.Add(context.Background(), "empty", []string{" "}, "nothing")
	assert.True(t, errors.Is(err, ErrKnowledgeWithoutKeywords))

	_, err = service.Add(context.Background(), "../escape", []string{"x"}, "nothing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidKey))
}
