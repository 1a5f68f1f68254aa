package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/cognition-hooks/internal/adapters/repo/records"
	"github.com/bnema/cognition-hooks/internal/adapters/store/memory"
	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceServicePrunesOnlySessionsAndAudit(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	ctx := context.Background()
	old := sessionNow.Add(-10 * 24 * time.Hour)
	recent := sessionNow.Add(-time.Hour)

	seed := []struct {
		ns      domain.Namespace
		key     string
		modTime time.Time
	}{
		{ns: domain.NamespaceSessions, key: "session_old", modTime: old},
		{ns: domain.NamespaceSessions, key: "session_new", modTime: recent},
		{ns: domain.NamespaceAudit, key: "prompt_enhancement_old", modTime: old},
		{ns: domain.NamespaceRoles, key: "architect-memory", modTime: old},
		{ns: domain.NamespaceShared, key: "cache-notes", modTime: old},
	}
	for _, s := range seed {
		require.NoError(t, store.Put(ctx, s.ns, s.key, []byte("{}")))
		store.Touch(s.ns, s.key, s.modTime)
	}

	service := NewMaintenanceService(records.NewRepository(store, records.JSONCodec{}), fixedClock{now: sessionNow}, nil)

	result, err := service.Prune(ctx, DefaultRetention)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total())
	assert.Equal(t, 1, result.Removed[domain.NamespaceSessions])
	assert.Equal(t, 1, result.Removed[domain.NamespaceAudit])
	assert.Equal(t, sessionNow.Add(-DefaultRetention), result.Cutoff)

	sessions, err := store.List(ctx, domain.NamespaceSessions)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "session_new", sessions[0].Key)

	for _, ns := range []domain.Namespace{domain.NamespaceRoles, domain.NamespaceShared} {
		kept, err := store.List(ctx, ns)
		require.NoError(t, err)
		assert.Len(t, kept, 1, ns)
	}
}

func TestMaintenanceServiceRejectsNegativeRetention(t *testing.T) {
	t.Parallel()

	service := NewMaintenanceService(records.NewRepository(memory.NewStore(), nil), nil, nil)
	_, err := service.Prune(context.Background(), -time.Hour)
	require.Error(t, err)
	assert.ErrorContains(t, err, "negative")
}

func TestMaintenanceServiceJoinsListFailures(t *testing.T) {
	t.Parallel()

	service := NewMaintenanceService(failingMaintenance{err: domain.ErrStoreUnavailable}, fixedClock{now: sessionNow}, nil)

	result, err := service.Prune(context.Background(), DefaultRetention)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	assert.ErrorContains(t, err, "list communication/messages")
	assert.ErrorContains(t, err, "list communication/context")
	assert.Zero(t, result.Total())
}

func TestMaintenanceServiceUninstallKeepsMemory(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	ctx := context.Background()
	repo := records.NewRepository(store, records.JSONCodec{})

	_, err := NewSessionService(repo, repo, repo, nil, fixedClock{now: sessionNow}, nil, nil).Start(ctx)
	require.NoError(t, err)

	result, err := NewMaintenanceService(repo, fixedClock{now: sessionNow}, nil).Uninstall(ctx, true)
	require.NoError(t, err)
	assert.True(t, result.KeptMemory)
	assert.Equal(t, 1, result.Total())
	assert.Equal(t, 1, result.Removed[domain.NamespaceRoot])

	_, err = repo.LoadStatus(ctx)
	assert.True(t, errors.Is(err, domain.ErrRecordNotFound))

	roles, err := store.List(ctx, domain.NamespaceRoles)
	require.NoError(t, err)
	assert.Len(t, roles, len(domain.Roles()))

	sessions, err := store.List(ctx, domain.NamespaceSessions)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestMaintenanceServiceUninstallRemovesEverything(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "CodeCognition")
	repo := newFileRecords(t, root)
	ctx := context.Background()

	_, err := NewSessionService(repo, repo, repo, nil, fixedClock{now: sessionNow}, nil, nil).Start(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveSharedKnowledge(ctx, domain.SharedKnowledge{ID: "cache-notes", Keywords: []string{"cache"}}))

	result, err := NewMaintenanceService(repo, fixedClock{now: sessionNow}, nil).Uninstall(ctx, false)
	require.NoError(t, err)
	assert.False(t, result.KeptMemory)
	assert.Equal(t, 1+len(domain.Roles())+1+1, result.Total())

	_, err = os.Stat(root)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMaintenanceServiceUninstallKeepsTreeOnRecordFailure(t *testing.T) {
	t.Parallel()

	service := NewMaintenanceService(failingMaintenance{err: domain.ErrStoreUnavailable}, fixedClock{now: sessionNow}, nil)

	result, err := service.Uninstall(context.Background(), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	assert.ErrorContains(t, err, "list <root>")
	assert.Zero(t, result.Total())
}

type failingMaintenance struct {
	err error
}

func (f failingMaintenance) ListRecords(context.Context, domain.Namespace) ([]ports.RecordInfo, error) {
	return nil, f.err
}

func (f failingMaintenance) DeleteRecord(context.Context, domain.Namespace, string) error {
	return f.err
}
