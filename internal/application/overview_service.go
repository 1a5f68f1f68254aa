package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
)

type RoleOverview struct {
	Role        domain.RoleID
	Description string
	// HasMemory is also true for a memory record that exists but cannot be decoded;
	// its counts then stay zero.
	HasMemory       bool
	LearnedPatterns int
	KnowledgeAreas  int
}

type Overview struct {
	// Status is nil when no session has ever started.
	Status       *domain.FrameworkStatus
	Roles        []RoleOverview
	SessionCount int
	Skips        []domain.Skip
}

func (o Overview) MemoryCount() int {
	count := 0
	for _, role := range o.Roles {
		if role.HasMemory {
			count++
		}
	}
	return count
}

type OverviewService struct {
	status   ports.StatusRepository
	sessions ports.SessionRepository
	memories ports.RoleMemoryRepository
}

func NewOverviewService(status ports.StatusRepository, sessions ports.SessionRepository, memories ports.RoleMemoryRepository) *OverviewService {
	return &OverviewService{status: status, sessions: sessions, memories: memories}
}

func (s *OverviewService) Overview(ctx context.Context) (Overview, error) {
	var overview Overview

	status, err := s.status.LoadStatus(ctx)
	switch {
	case err == nil:
		overview.Status = &status
	case errors.Is(err, domain.ErrRecordNotFound):
	default:
		return Overview{}, fmt.Errorf("load framework status: %w", err)
	}

	roles, err := s.Roles(ctx)
	if err != nil {
		return Overview{}, err
	}
	overview.Roles = roles

	sessions, skips, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list sessions: %w", err)
	}
	overview.SessionCount = len(sessions)
	overview.Skips = skips

	return overview, nil
}

func (s *OverviewService) Roles(ctx context.Context) ([]RoleOverview, error) {
	roles := make([]RoleOverview, 0, len(domain.Roles()))
	for _, role := range domain.Roles() {
		overview := RoleOverview{Role: role, Description: role.Description()}

		memory, err := s.memories.GetRoleMemory(ctx, role)
		switch {
		case err == nil:
			overview.HasMemory = true
			overview.LearnedPatterns = len(memory.LearnedPatterns)
			overview.KnowledgeAreas = len(memory.KnowledgeAreas)
		case errors.Is(err, domain.ErrRecordNotFound):
		case errors.Is(err, domain.ErrMalformedRecord):
			overview.HasMemory = true
		default:
			return nil, fmt.Errorf("read %s memory: %w", role, err)
		}

		roles = append(roles, overview)
	}

	return roles, nil
}
