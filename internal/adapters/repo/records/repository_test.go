package records

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/cognition-hooks/internal/adapters/store/file"
	"github.com/bnema/cognition-hooks/internal/adapters/store/memory"
	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func TestRepositoryStatusRoundTripBothCodecs(t *testing.T) {
	t.Parallel()

	for _, codec := range []Codec{JSONCodec{}, TOMLCodec{}} {
		codec := codec
		t.Run(codec.Name(), func(t *testing.T) {
			t.Parallel()

			repo := newFileRepository(t, t.TempDir(), codec)
			ctx := context.Background()

			want := domain.ActiveStatus("20261018_093000-abcd1234", testNow)
			require.NoError(t, repo.SaveStatus(ctx, want))

			got, err := repo.LoadStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRepositoryLoadStatusMissing(t *testing.T) {
	t.Parallel()

	repo := NewRepository(memory.NewStore(), JSONCodec{})
	_, err := repo.LoadStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRecordNotFound))
}

func TestRepositoryLoadStatusMalformed(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	require.NoError(t, store.Put(context.Background(), domain.NamespaceRoot, domain.FrameworkStatusKey, []byte("{not json")))

	repo := NewRepository(store, JSONCodec{})
	_, err := repo.LoadStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedRecord))
}

func TestRepositoryLoadStatusRejectsFutureSchema(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	require.NoError(t, store.Put(context.Background(), domain.NamespaceRoot, domain.FrameworkStatusKey, []byte(`{"version": 9, "framework_active": true}`)))

	repo := NewRepository(store, JSONCodec{})
	_, err := repo.LoadStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedRecord))
	assert.ErrorContains(t, err, "unsupported framework status schema version 9")
}

func TestRepositoryReadsLegacyStatusFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	legacy := `{
  "framework_active": true,
  "session_started": "2026-10-18T09:30:00.123456",
  "agents_available": ["architect", "problem-solver", "janitor"],
  "communication_enabled": true,
  "memory_system_active": true,
  "hooks_enabled": true
}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "framework-status.json"), []byte(legacy), 0o600))

	repo := newFileRepository(t, root, JSONCodec{})
	got, err := repo.LoadStatus(context.Background())
	require.NoError(t, err)

	assert.True(t, got.IsActive())
	assert.Equal(t, []domain.RoleID{domain.RoleArchitect, domain.RoleProblemSolver}, got.AvailableRoles)
	assert.Equal(t, 2026, got.SessionStartedAt.Year())
	assert.Equal(t, 30, got.SessionStartedAt.Minute())
}

func TestRepositoryCreateSessionIsUniqueAndListed(t *testing.T) {
	t.Parallel()

	repo := newFileRepository(t, t.TempDir(), JSONCodec{})
	ctx := context.Background()

	session := domain.SessionRecord{
		SessionID:        "20261018_093000-abcd1234",
		StartedAt:        testNow,
		InitializedRoles: []domain.RoleID{domain.RoleArchitect},
		FrameworkVersion: domain.FrameworkVersion,
	}
	require.NoError(t, repo.CreateSession(ctx, session))

	err := repo.CreateSession(ctx, session)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRecordExists))

	sessions, skips, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, skips)
	assert.Equal(t, []domain.SessionRecord{session}, sessions)
}

func TestRepositoryRoleMemoryCreateNeverOverwrites(t *testing.T) {
	t.Parallel()

	for _, codec := range []Codec{JSONCodec{}, TOMLCodec{}} {
		codec := codec
		t.Run(codec.Name(), func(t *testing.T) {
			t.Parallel()

			repo := newFileRepository(t, t.TempDir(), codec)
			ctx := context.Background()

			_, err := repo.GetRoleMemory(ctx, domain.RoleArchitect)
			assert.True(t, errors.Is(err, domain.ErrRecordNotFound))

			learned := domain.NewRoleMemory(domain.RoleArchitect, testNow)
			learned.LearnedPatterns = []string{"prefer ports over globals"}
			require.NoError(t, repo.CreateRoleMemory(ctx, learned))

			err = repo.CreateRoleMemory(ctx, domain.NewRoleMemory(domain.RoleArchitect, testNow.Add(time.Hour)))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrRecordExists))

			got, err := repo.GetRoleMemory(ctx, domain.RoleArchitect)
			require.NoError(t, err)
			assert.Equal(t, learned, got)
		})
	}
}

func TestRepositoryRoleMemoryRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	repo := NewRepository(memory.NewStore(), JSONCodec{})
	err := repo.CreateRoleMemory(context.Background(), domain.NewRoleMemory("janitor", testNow))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownRole))
}

func TestRepositorySaveRoleMemoryReplaces(t *testing.T) {
	t.Parallel()

	repo := NewRepository(memory.NewStore(), JSONCodec{})
	ctx := context.Background()

	seed := domain.NewRoleMemory(domain.RoleQualityGuardian, testNow)
	require.NoError(t, repo.CreateRoleMemory(ctx, seed))

	seed.SuccessfulApproaches = []string{"table tests"}
	require.NoError(t, repo.SaveRoleMemory(ctx, seed))

	got, err := repo.GetRoleMemory(ctx, domain.RoleQualityGuardian)
	require.NoError(t, err)
	assert.Equal(t, []string{"table tests"}, got.SuccessfulApproaches)
}

func TestRepositorySharedKnowledgeSkipsMalformedRecords(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	ctx := context.Background()
	repo := NewRepository(store, JSONCodec{})

	require.NoError(t, repo.SaveSharedKnowledge(ctx, domain.SharedKnowledge{
		ID:       "cache-notes",
		Keywords: []string{" Cache ", "cache", "eviction"},
		Summary:  "LRU with a 5 minute TTL",
	}))
	require.NoError(t, store.Put(ctx, domain.NamespaceShared, "broken", []byte("{")))
	require.NoError(t, store.Put(ctx, domain.NamespaceShared, "future", []byte(`{"version": 7}`)))

	knowledge, skips, err := repo.ListSharedKnowledge(ctx)
	require.NoError(t, err)

	assert.Equal(t, []domain.SharedKnowledge{{
		ID:       "cache-notes",
		Keywords: []string{"cache", "eviction"},
		Summary:  "LRU with a 5 minute TTL",
	}}, knowledge)

	require.Len(t, skips, 2)
	for _, skip := range skips {
		assert.Equal(t, domain.NamespaceShared, skip.Namespace)
		assert.Equal(t, domain.SkipMalformed, skip.Reason)
		assert.True(t, errors.Is(skip.Err, domain.ErrMalformedRecord))
	}
	assert.Equal(t, "broken", skips[0].Key)
	assert.Equal(t, "future", skips[1].Key)
}

func TestRepositorySharedKnowledgeEmptyNamespace(t *testing.T) {
	t.Parallel()

	repo := newFileRepository(t, t.TempDir(), JSONCodec{})
	knowledge, skips, err := repo.ListSharedKnowledge(context.Background())
	require.NoError(t, err)
	assert.Empty(t, knowledge)
	assert.Empty(t, skips)
}

func TestRepositorySaveSharedKnowledgeRejectsBadID(t *testing.T) {
	t.Parallel()

	repo := NewRepository(memory.NewStore(), JSONCodec{})
	err := repo.SaveSharedKnowledge(context.Background(), domain.SharedKnowledge{ID: "../escape"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidKey))
}

func TestRepositoryAppendAuditWritesNamedRecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	repo := newFileRepository(t, root, JSONCodec{})
	ctx := context.Background()

	entry := domain.AuditEntry{
		ID:             "20261018_093000-abcd1234",
		OriginalPrompt: "debug the cache",
		Enhancement: domain.EnrichmentPayload{
			Active: true,
			Suggestions: []domain.RoleSuggestion{
				{RoleID: domain.RoleProblemSolver, Rationale: "Debugging/troubleshooting needed", Confidence: 0.9},
			},
		},
		Timestamp: testNow,
	}
	require.NoError(t, repo.AppendAudit(ctx, entry))

	data, err := os.ReadFile(filepath.Join(root, "communication", "context", "prompt_enhancement_20261018_093000-abcd1234.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"original_prompt": "debug the cache"`)
	assert.Contains(t, string(data), `"roleId": "problem-solver"`)

	err = repo.AppendAudit(ctx, entry)
	assert.True(t, errors.Is(err, domain.ErrRecordExists))
}

func TestRepositoryMaintenanceListsAndDeletes(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	repo := NewRepository(store, JSONCodec{})
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.NamespaceAudit, "prompt_enhancement_a", []byte("{}")))

	infos, err := repo.ListRecords(ctx, domain.NamespaceAudit)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	require.NoError(t, repo.DeleteRecord(ctx, domain.NamespaceAudit, infos[0].Key))
	infos, err = repo.ListRecords(ctx, domain.NamespaceAudit)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestCodecFor(t *testing.T) {
	t.Parallel()

	codec, err := CodecFor("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, codec.Name())

	codec, err = CodecFor(" TOML ")
	require.NoError(t, err)
	assert.Equal(t, ".toml", codec.Extension())

	_, err = CodecFor("xml")
	require.Error(t, err)
	assert.ErrorContains(t, err, `unsupported record format "xml"`)
}

func newFileRepository(t *testing.T, root string, codec Codec) *Repository {
	t.Helper()

	store, err := file.NewStore(root, codec.Extension())
	require.NoError(t, err)
	return NewRepository(store, codec)
}
