package domain

import "time"

const RelevanceSharedKnowledge = "shared_knowledge"

type RoleSuggestion struct {
	RoleID     RoleID  `json:"roleId"`
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"`
}

type RetrievedKnowledge struct {
	SourceID     string `json:"sourceId"`
	Summary      string `json:"summary"`
	RelevanceTag string `json:"relevanceTag"`
}

type EnrichmentPayload struct {
	Active                  bool                 `json:"active"`
	Suggestions             []RoleSuggestion     `json:"suggestions"`
	CoordinationRecommended bool                 `json:"coordinationRecommended"`
	ParallelOpportunity     bool                 `json:"parallelOpportunity"`
	RelevantMemory          []RetrievedKnowledge `json:"relevantMemory"`
	Recommendations         []string             `json:"recommendations"`
}

// Trivial payloads carry neither suggestions nor knowledge.
func (p EnrichmentPayload) Trivial() bool {
	return len(p.Suggestions) == 0 && len(p.RelevantMemory) == 0
}

type AuditEntry struct {
	ID             string
	OriginalPrompt string
	Enhancement    EnrichmentPayload
	Timestamp      time.Time
}
