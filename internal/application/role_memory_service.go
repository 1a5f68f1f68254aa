package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
)

var ErrEmptyPattern = errors.New("learned pattern must not be empty")

// RoleMemoryService appends what a role learned during a session to its memory record.
type RoleMemoryService struct {
	memories ports.RoleMemoryRepository
	clock    ports.Clock
}

func NewRoleMemoryService(memories ports.RoleMemoryRepository, clock ports.Clock) *RoleMemoryService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &RoleMemoryService{memories: memories, clock: clock}
}

// RecordPattern adds pattern to the role's learned patterns. A missing record is
// seeded first; a pattern already present is not repeated.
func (s *RoleMemoryService) RecordPattern(ctx context.Context, role domain.RoleID, pattern string) (domain.RoleMemory, error) {
	if !role.Valid() {
		return domain.RoleMemory{}, &domain.UnknownRoleError{Role: string(role)}
	}

	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return domain.RoleMemory{}, ErrEmptyPattern
	}

	memory, err := s.memories.GetRoleMemory(ctx, role)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRecordNotFound):
		memory = domain.NewRoleMemory(role, s.clock.Now())
	default:
		return domain.RoleMemory{}, fmt.Errorf("read %s memory: %w", role, err)
	}

	for _, known := range memory.LearnedPatterns {
		if strings.EqualFold(known, pattern) {
			return memory, nil
		}
	}
	memory.LearnedPatterns = append(memory.LearnedPatterns, pattern)

	if err := s.memories.SaveRoleMemory(ctx, memory); err != nil {
		return domain.RoleMemory{}, fmt.Errorf("save %s memory: %w", role, err)
	}

	return memory, nil
}
