package application

import (
	"sync"
	"testing"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierEachRuleFiresIndependently(t *testing.T) {
	t.Parallel()

	triggers := map[domain.RoleID]string{
		domain.RoleArchitect:               "design",
		domain.RoleImplementationEngineer:  "implement",
		domain.RoleQualityGuardian:         "review",
		domain.RoleDevOpsOrchestrator:      "deploy",
		domain.RoleDocumentationSpecialist: "document",
		domain.RoleResearchAnalyst:         "investigate",
		domain.RoleProblemSolver:           "debug",
		domain.RoleIntegrationManager:      "coordinate",
	}

	table := rules.Default()
	classifier := NewClassifier(table)

	for _, rule := range table {
		trigger := triggers[rule.RoleID]
		require.NotEmpty(t, trigger, rule.RoleID)

		alone := classifier.Classify("please " + trigger + " this")
		assert.Contains(t, alone, suggestionFor(rule), "alone: %s", rule.RoleID)

		for _, other := range triggers {
			combined := classifier.Classify(trigger + " and " + other + " now")
			assert.Contains(t, combined, suggestionFor(rule), "%s with %s", trigger, other)
		}
	}
}

func TestClassifierPreservesTableOrder(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(rules.Default())
	got := classifier.Classify("debug then design then document")

	require.Len(t, got, 3)
	assert.Equal(t, domain.RoleArchitect, got[0].RoleID)
	assert.Equal(t, domain.RoleDocumentationSpecialist, got[1].RoleID)
	assert.Equal(t, domain.RoleProblemSolver, got[2].RoleID)
}

func TestClassifierEmptyInputAndNoMatch(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(rules.Default())

	for _, text := range []string{"", "   ", "good morning"} {
		got := classifier.Classify(text)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestClassifierWithoutRules(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NewClassifier(nil).Classify("design everything"))
}

func TestClassifierSetRulesSwapsTable(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(rules.Default())
	matcher, err := domain.NewRegexMatcher(`\bkubectl\b`)
	require.NoError(t, err)
	replacement := []domain.RoleRule{{Pattern: matcher, RoleID: domain.RoleDevOpsOrchestrator, Rationale: "Cluster work", Confidence: 0.5}}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = classifier.Classify("design the kubectl rollout")
			}
		}()
	}
	classifier.SetRules(replacement)
	wg.Wait()

	got := classifier.Classify("design the kubectl rollout")
	assert.Equal(t, []domain.RoleSuggestion{{RoleID: domain.RoleDevOpsOrchestrator, Rationale: "Cluster work", Confidence: 0.5}}, got)
	assert.Len(t, classifier.Rules(), 1)
}

func suggestionFor(rule domain.RoleRule) domain.RoleSuggestion {
	return domain.RoleSuggestion{RoleID: rule.RoleID, Rationale: rule.Rationale, Confidence: rule.Confidence}
}
