package application

import "github.com/bnema/cognition-hooks/internal/domain"

const (
	RecommendCoordination = "Consider using the Integration Manager to coordinate multiple agents"
	RecommendParallel     = "Opportunity for parallel agent execution to maximize efficiency"

	coordinationThreshold = 2
	parallelThreshold     = 3
)

// Compose derives the coordination flags from the suggestion count alone.
func Compose(suggestions []domain.RoleSuggestion, retrieved []domain.RetrievedKnowledge) domain.EnrichmentPayload {
	payload := domain.EnrichmentPayload{
		Active:          true,
		Suggestions:     append([]domain.RoleSuggestion{}, suggestions...),
		RelevantMemory:  append([]domain.RetrievedKnowledge{}, retrieved...),
		Recommendations: []string{},
	}

	n := len(suggestions)
	payload.CoordinationRecommended = n >= coordinationThreshold
	payload.ParallelOpportunity = n >= parallelThreshold

	if payload.CoordinationRecommended {
		payload.Recommendations = append(payload.Recommendations, RecommendCoordination)
	}
	if payload.ParallelOpportunity {
		payload.Recommendations = append(payload.Recommendations, RecommendParallel)
	}

	return payload
}

// AuditPolicy decides which payloads reach the audit log.
type AuditPolicy struct {
	Enabled    bool
	LogTrivial bool
}

func DefaultAuditPolicy() AuditPolicy {
	return AuditPolicy{Enabled: true}
}

func (p AuditPolicy) ShouldRecord(payload domain.EnrichmentPayload) bool {
	if !p.Enabled {
		return false
	}
	return p.LogTrivial || !payload.Trivial()
}
