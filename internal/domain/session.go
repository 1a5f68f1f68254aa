package domain

import "time"

const FrameworkVersion = "1.0.0"

type SessionID string

type SessionRecord struct {
	SessionID        SessionID
	StartedAt        time.Time
	InitializedRoles []RoleID
	FrameworkVersion string
}

type FrameworkStatus struct {
	Active               bool
	SessionID            SessionID
	SessionStartedAt     time.Time
	AvailableRoles       []RoleID
	CommunicationEnabled bool
	MemoryActive         bool
}

func (s *FrameworkStatus) IsActive() bool {
	return s != nil && s.Active
}

// ActiveStatus builds the status a freshly started session publishes.
func ActiveStatus(id SessionID, startedAt time.Time) FrameworkStatus {
	return FrameworkStatus{
		Active:               true,
		SessionID:            id,
		SessionStartedAt:     startedAt,
		AvailableRoles:       Roles(),
		CommunicationEnabled: true,
		MemoryActive:         true,
	}
}

type ProjectContext struct {
	ProjectInitialized bool
	Name               string
	Extra              map[string]any
}
