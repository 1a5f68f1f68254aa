package domain

import "strings"

type RoleID string

const (
	RoleArchitect               RoleID = "architect"
	RoleImplementationEngineer  RoleID = "implementation-engineer"
	RoleQualityGuardian         RoleID = "quality-guardian"
	RoleDevOpsOrchestrator      RoleID = "devops-orchestrator"
	RoleDocumentationSpecialist RoleID = "documentation-specialist"
	RoleResearchAnalyst         RoleID = "research-analyst"
	RoleProblemSolver           RoleID = "problem-solver"
	RoleIntegrationManager      RoleID = "integration-manager"
)

var roles = []RoleID{
	RoleArchitect,
	RoleImplementationEngineer,
	RoleQualityGuardian,
	RoleDevOpsOrchestrator,
	RoleDocumentationSpecialist,
	RoleResearchAnalyst,
	RoleProblemSolver,
	RoleIntegrationManager,
}

var roleDescriptions = map[RoleID]string{
	RoleArchitect:               "System design and architecture specialist",
	RoleImplementationEngineer:  "Code development and implementation expert",
	RoleQualityGuardian:         "Security, testing, and quality assurance",
	RoleDevOpsOrchestrator:      "Infrastructure and operations specialist",
	RoleDocumentationSpecialist: "Technical writing and knowledge management",
	RoleResearchAnalyst:         "Technology research and impact analysis",
	RoleProblemSolver:           "Debugging and troubleshooting expert",
	RoleIntegrationManager:      "Workflow orchestration and coordination",
}

// Roles returns the fixed role set in display order. The slice is a copy.
func Roles() []RoleID {
	out := make([]RoleID, len(roles))
	copy(out, roles)
	return out
}

func ParseRoleID(raw string) (RoleID, error) {
	role := RoleID(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", &UnknownRoleError{Role: raw}
	}

	return role, nil
}

func (r RoleID) Valid() bool {
	_, ok := roleDescriptions[r]
	return ok
}

func (r RoleID) Description() string {
	return roleDescriptions[r]
}

func (r RoleID) String() string {
	return string(r)
}
