package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
	"go.uber.org/zap"
)

// maxRecordIDAttempts bounds retries when a generated record id is already taken.
const maxRecordIDAttempts = 3

type SessionStart struct {
	SessionID            domain.SessionID
	StartedAt            time.Time
	RolesAvailable       []domain.RoleID
	SeededRoles          []domain.RoleID
	ProjectContextLoaded bool
}

// SessionService provisions the store and is the only writer allowed to mark the
// framework active.
type SessionService struct {
	sessions ports.SessionRepository
	memories ports.RoleMemoryRepository
	status   ports.StatusRepository
	project  ports.ProjectContextLoader
	clock    ports.Clock
	ids      ports.IDGenerator
	logger   *zap.Logger
}

func NewSessionService(
	sessions ports.SessionRepository,
	memories ports.RoleMemoryRepository,
	status ports.StatusRepository,
	project ports.ProjectContextLoader,
	clock ports.Clock,
	ids ports.IDGenerator,
	logger *zap.Logger,
) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if ids == nil {
		ids = ports.TimestampIDs{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionService{
		sessions: sessions,
		memories: memories,
		status:   status,
		project:  project,
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}
}

// Start provisions namespaces, seeds missing role memories, records a new session
// and publishes the active status. The status is written last so readers never see
// an active framework whose other records are missing.
func (s *SessionService) Start(ctx context.Context) (SessionStart, error) {
	if err := s.sessions.EnsureNamespaces(ctx, domain.StoreNamespaces()...); err != nil {
		return SessionStart{}, fmt.Errorf("provision store namespaces: %w", storeUnavailable(err))
	}

	now := s.clock.Now()

	seeded, err := s.seedRoleMemories(ctx, now)
	if err != nil {
		return SessionStart{}, err
	}

	sessionID, err := s.createSession(ctx, now)
	if err != nil {
		return SessionStart{}, err
	}

	projectLoaded := false
	if s.project != nil {
		projectContext, err := s.project.Load(ctx)
		if err != nil {
			s.logger.Debug("project context not loaded", zap.Error(err))
		} else {
			projectLoaded = projectContext.ProjectInitialized
		}
	}

	if err := s.status.SaveStatus(ctx, domain.ActiveStatus(sessionID, now)); err != nil {
		return SessionStart{}, fmt.Errorf("publish framework status: %w", storeUnavailable(err))
	}

	s.logger.Info("session started",
		zap.String("session_id", string(sessionID)),
		zap.Int("seeded_roles", len(seeded)),
		zap.Bool("project_context_loaded", projectLoaded),
	)

	return SessionStart{
		SessionID:            sessionID,
		StartedAt:            now,
		RolesAvailable:       domain.Roles(),
		SeededRoles:          seeded,
		ProjectContextLoaded: projectLoaded,
	}, nil
}

// End marks the framework inactive. It reports whether a session was active.
func (s *SessionService) End(ctx context.Context) (bool, error) {
	status, err := s.status.LoadStatus(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load framework status: %w", err)
	}
	if !status.IsActive() {
		return false, nil
	}

	status.Active = false
	if err := s.status.SaveStatus(ctx, status); err != nil {
		return false, fmt.Errorf("save framework status: %w", err)
	}

	s.logger.Info("session ended", zap.String("session_id", string(status.SessionID)))
	return true, nil
}

// seedRoleMemories creates the seed record for every role that has none. Creation is
// atomic, so a record another session wrote first is left untouched.
func (s *SessionService) seedRoleMemories(ctx context.Context, now time.Time) ([]domain.RoleID, error) {
	seeded := make([]domain.RoleID, 0, len(domain.Roles()))
	for _, role := range domain.Roles() {
		err := s.memories.CreateRoleMemory(ctx, domain.NewRoleMemory(role, now))
		switch {
		case err == nil:
			seeded = append(seeded, role)
		case errors.Is(err, domain.ErrRecordExists):
		default:
			return nil, fmt.Errorf("seed %s memory: %w", role, storeUnavailable(err))
		}
	}

	return seeded, nil
}

func (s *SessionService) createSession(ctx context.Context, now time.Time) (domain.SessionID, error) {
	var lastErr error
	for attempt := 0; attempt < maxRecordIDAttempts; attempt++ {
		id := domain.SessionID(s.ids.NewID(now))
		err := s.sessions.CreateSession(ctx, domain.SessionRecord{
			SessionID:        id,
			StartedAt:        now,
			InitializedRoles: domain.Roles(),
			FrameworkVersion: domain.FrameworkVersion,
		})
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, domain.ErrRecordExists) {
			return "", fmt.Errorf("create session record: %w", storeUnavailable(err))
		}
		lastErr = err
	}

	return "", fmt.Errorf("create session record after %d attempts: %w", maxRecordIDAttempts, lastErr)
}

func storeUnavailable(err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
