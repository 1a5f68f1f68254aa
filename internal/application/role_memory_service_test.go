package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRoleMemoryServiceRecordPatternKeepsExistingMemory(t *testing.T) {
	t.Parallel()

	repo := newFileRecords(t, t.TempDir())
	ctx := context.Background()

	_, err := NewSessionService(repo, repo, repo, nil, fixedClock{now: sessionNow}, nil, nil).Start(ctx)
	require.NoError(t, err)

	service := NewRoleMemoryService(repo, fixedClock{now: sessionNow})
	_, err = service.RecordPattern(ctx, domain.RoleArchitect, "  ports before adapters ")
	require.NoError(t, err)
	got, err := service.RecordPattern(ctx, domain.RoleArchitect, "Ports Before Adapters")
	require.NoError(t, err)
	assert.Equal(t, []string{"ports before adapters"}, got.LearnedPatterns)

	stored, err := repo.GetRoleMemory(ctx, domain.RoleArchitect)
	require.NoError(t, err)
	assert.Equal(t, []string{"ports before adapters"}, stored.LearnedPatterns)
	assert.True(t, stored.InitializedAt.Equal(sessionNow))

	roles, err := NewOverviewService(repo, repo, repo).Roles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, roles[0].LearnedPatterns)
}

func TestRoleMemoryServiceRecordPatternSeedsMissingMemory(t *testing.T) {
	t.Parallel()

	memories := mocks.NewMockRoleMemoryRepository(t)
	memories.EXPECT().GetRoleMemory(mockAnyContext(), domain.RoleProblemSolver).Return(domain.RoleMemory{}, domain.ErrRecordNotFound)
	memories.EXPECT().SaveRoleMemory(mockAnyContext(), mock.MatchedBy(func(m domain.RoleMemory) bool {
		return m.RoleID == domain.RoleProblemSolver &&
			m.InitializedAt.Equal(sessionNow) &&
			len(m.LearnedPatterns) == 1 && m.LearnedPatterns[0] == "bisect before guessing"
	})).Return(nil)

	got, err := NewRoleMemoryService(memories, fixedClock{now: sessionNow}).
		RecordPattern(context.Background(), domain.RoleProblemSolver, "bisect before guessing")
	require.NoError(t, err)
	assert.Equal(t, []string{"bisect before guessing"}, got.LearnedPatterns)
}

func TestRoleMemoryServiceRecordPatternRejectsBadInput(t *testing.T) {
	t.Parallel()

	service := NewRoleMemoryService(mocks.NewMockRoleMemoryRepository(t), fixedClock{now: sessionNow})

	_, err := service.RecordPattern(context.Background(), "janitor", "sweep")
	assert.True(t, errors.Is(err, domain.ErrUnknownRole))

	_, err = service.RecordPattern(context.Background(), domain.RoleArchitect, "   ")
	assert.True(t, errors.Is(err, ErrEmptyPattern))
}

func TestRoleMemoryServiceRecordPatternKeepsMalformedRecord(t *testing.T) {
	t.Parallel()

	memories := mocks.NewMockRoleMemoryRepository(t)
	memories.EXPECT().GetRoleMemory(mockAnyContext(), domain.RoleArchitect).Return(domain.RoleMemory{}, domain.ErrMalformedRecord)

	_, err := NewRoleMemoryService(memories, fixedClock{now: sessionNow}).
		RecordPattern(context.Background(), domain.RoleArchitect, "anything")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedRecord))
	memories.AssertNotCalled(t, "SaveRoleMemory", mock.Anything, mock.Anything)
}
