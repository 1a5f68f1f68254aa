package rules

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDefaultTableCoversEveryRoleInOrder(t *testing.T) {
	t.Parallel()

	table := Default()

	got := make([]domain.RoleID, 0, len(table))
	for _, rule := range table {
		got = append(got, rule.RoleID)
		assert.NotEmpty(t, rule.Rationale, rule.RoleID)
	}

	if diff := cmp.Diff(domain.Roles(), got); diff != "" {
		t.Fatalf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultTableConfidences(t *testing.T) {
	t.Parallel()

	want := map[domain.RoleID]float64{
		domain.RoleArchitect:               0.8,
		domain.RoleImplementationEngineer:  0.9,
		domain.RoleQualityGuardian:         0.8,
		domain.RoleDevOpsOrchestrator:      0.7,
		domain.RoleDocumentationSpecialist: 0.8,
		domain.RoleResearchAnalyst:         0.7,
		domain.RoleProblemSolver:           0.9,
		domain.RoleIntegrationManager:      0.6,
	}

	got := map[domain.RoleID]float64{}
	for _, rule := range Default() {
		got[rule.RoleID] = rule.Confidence
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("confidence mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultTableMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prompt string
		want   []domain.RoleID
	}{
		{
			name:   "review and test",
			prompt: "Can you review and test this implementation for bugs?",
			want:   []domain.RoleID{domain.RoleImplementationEngineer, domain.RoleQualityGuardian, domain.RoleProblemSolver},
		},
		{
			name:   "architecture",
			prompt: "Design the system architecture",
			want:   []domain.RoleID{domain.RoleArchitect},
		},
		{
			name:   "docs",
			prompt: "Update the README",
			want:   []domain.RoleID{domain.RoleDocumentationSpecialist},
		},
		{
			name:   "inflected keywords",
			prompt: "Creating codes for securing integrations",
			want: []domain.RoleID{
				domain.RoleArchitect,
				domain.RoleImplementationEngineer,
				domain.RoleQualityGuardian,
			},
		},
		{
			name:   "plural short words",
			prompt: "List the APIs in each readmes folder",
			want:   []domain.RoleID{domain.RoleDocumentationSpecialist},
		},
		{
			name:   "stems beyond short words",
			prompt: "Infrastructural performant qualities",
			want:   []domain.RoleID{domain.RoleQualityGuardian, domain.RoleDevOpsOrchestrator},
		},
		{
			name:   "whole words only",
			prompt: "Preview the apiary",
			want:   nil,
		},
		{
			name:   "nothing",
			prompt: "hello there",
			want:   nil,
		},
	}

	table := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []domain.RoleID
			for _, rule := range table {
				if rule.Pattern.Match(tt.prompt) {
					got = append(got, rule.RoleID)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsInvalidTables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "not yaml", data: "rules: [", wantErr: "decode rule table"},
		{name: "empty", data: "version: 1\n", wantErr: "has no rules"},
		{name: "future version", data: "version: 5\nrules: []\n", wantErr: "unsupported rule table version 5"},
		{name: "unknown role", data: "rules:\n  - role: janitor\n    pattern: x\n    confidence: 0.5\n", wantErr: "unknown role"},
		{name: "bad regex", data: "rules:\n  - role: architect\n    pattern: '(x'\n    confidence: 0.5\n", wantErr: "compile pattern"},
		{name: "bad confidence", data: "rules:\n  - role: architect\n    pattern: x\n    confidence: 2\n", wantErr: "outside (0,1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadFromPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - role: devops-orchestrator
    pattern: '\bkubectl\b'
    rationale: Cluster work
    confidence: 0.5
`), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.RoleDevOpsOrchestrator, got[0].RoleID)
	assert.True(t, got[0].Pattern.Match("run KUBECTL apply"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "read rule table")

	defaults, err := Load("")
	require.NoError(t, err)
	assert.Len(t, defaults, len(domain.Roles()))
}

func TestWatcherAppliesValidChangesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - role: architect\n    pattern: design\n    confidence: 0.8\n"), 0o600))

	var (
		mu      sync.Mutex
		applied [][]domain.RoleRule
	)
	watcher := NewWatcher(path, nil, func(rules []domain.RoleRule) {
		mu.Lock()
		defer mu.Unlock()
		applied = append(applied, rules)
	})
	watcher.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - role: problem-solver\n    pattern: crash\n    confidence: 0.9\n"), 0o600))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(applied) > 0 && applied[len(applied)-1][0].RoleID == domain.RoleProblemSolver
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	seen := len(applied)
	mu.Unlock()

	require.NoError(t, os.WriteFile(path, []byte("rules: ["), 0o600))
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, seen, len(applied))
}
