package records

import "fmt"

const currentSchemaVersion = 1

type versioned struct {
	Version int `json:"version" toml:"version"`
}

func (v *versioned) applyDefaults() {
	if v.Version == 0 {
		v.Version = currentSchemaVersion
	}
}

func (v versioned) validateVersion(kind string) error {
	if v.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported %s schema version %d (current %d)", kind, v.Version, currentSchemaVersion)
	}

	return nil
}

// Field names follow the files the hook scripts have always written, so existing
// stores keep loading.

type statusSchema struct {
	versioned
	FrameworkActive      bool     `json:"framework_active" toml:"framework_active"`
	SessionID            string   `json:"session_id,omitempty" toml:"session_id,omitempty"`
	SessionStarted       string   `json:"session_started" toml:"session_started"`
	AgentsAvailable      []string `json:"agents_available" toml:"agents_available"`
	CommunicationEnabled bool     `json:"communication_enabled" toml:"communication_enabled"`
	MemorySystemActive   bool     `json:"memory_system_active" toml:"memory_system_active"`
}

type sessionSchema struct {
	versioned
	SessionID         string   `json:"session_id" toml:"session_id"`
	StartedAt         string   `json:"started_at" toml:"started_at"`
	AgentsInitialized []string `json:"agents_initialized" toml:"agents_initialized"`
	FrameworkVersion  string   `json:"framework_version" toml:"framework_version"`
}

type roleMemorySchema struct {
	versioned
	AgentName            string   `json:"agent_name" toml:"agent_name"`
	InitializedAt        string   `json:"initialized_at" toml:"initialized_at"`
	KnowledgeAreas       []string `json:"knowledge_areas" toml:"knowledge_areas"`
	LearnedPatterns      []string `json:"learned_patterns" toml:"learned_patterns"`
	SuccessfulApproaches []string `json:"successful_approaches" toml:"successful_approaches"`
	CollaborationHistory []string `json:"collaboration_history" toml:"collaboration_history"`
}

type sharedKnowledgeSchema struct {
	versioned
	Keywords []string `json:"keywords" toml:"keywords"`
	Summary  string   `json:"summary" toml:"summary"`
}

type auditSchema struct {
	versioned
	OriginalPrompt string        `json:"original_prompt" toml:"original_prompt"`
	Enhancement    payloadSchema `json:"enhancement" toml:"enhancement"`
	Timestamp      string        `json:"timestamp" toml:"timestamp"`
}

type payloadSchema struct {
	Active                  bool               `json:"active" toml:"active"`
	Suggestions             []suggestionSchema `json:"suggestions" toml:"suggestions"`
	CoordinationRecommended bool               `json:"coordinationRecommended" toml:"coordinationRecommended"`
	ParallelOpportunity     bool               `json:"parallelOpportunity" toml:"parallelOpportunity"`
	RelevantMemory          []knowledgeSchema  `json:"relevantMemory" toml:"relevantMemory"`
	Recommendations         []string           `json:"recommendations" toml:"recommendations"`
}

type suggestionSchema struct {
	RoleID     string  `json:"roleId" toml:"roleId"`
	Rationale  string  `json:"rationale" toml:"rationale"`
	Confidence float64 `json:"confidence" toml:"confidence"`
}

type knowledgeSchema struct {
	SourceID     string `json:"sourceId" toml:"sourceId"`
	Summary      string `json:"summary" toml:"summary"`
	RelevanceTag string `json:"relevanceTag" toml:"relevanceTag"`
}
