package ports

import (
	"context"

	"github.com/bnema/cognition-hooks/internal/domain"
)

type StatusRepository interface {
	LoadStatus(ctx context.Context) (domain.FrameworkStatus, error)
	SaveStatus(ctx context.Context, status domain.FrameworkStatus) error
}

type SessionRepository interface {
	EnsureNamespaces(ctx context.Context, namespaces ...domain.Namespace) error
	CreateSession(ctx context.Context, session domain.SessionRecord) error
	ListSessions(ctx context.Context) ([]domain.SessionRecord, []domain.Skip, error)
}

type RoleMemoryRepository interface {
	CreateRoleMemory(ctx context.Context, memory domain.RoleMemory) error
	SaveRoleMemory(ctx context.Context, memory domain.RoleMemory) error
	GetRoleMemory(ctx context.Context, role domain.RoleID) (domain.RoleMemory, error)
}

type KnowledgeRepository interface {
	ListSharedKnowledge(ctx context.Context) ([]domain.SharedKnowledge, []domain.Skip, error)
	SaveSharedKnowledge(ctx context.Context, knowledge domain.SharedKnowledge) error
}

type AuditRepository interface {
	AppendAudit(ctx context.Context, entry domain.AuditEntry) error
}

type RecordMaintenance interface {
	ListRecords(ctx context.Context, ns domain.Namespace) ([]RecordInfo, error)
	DeleteRecord(ctx context.Context, ns domain.Namespace, key string) error
}

type ProjectContextLoader interface {
	Load(ctx context.Context) (domain.ProjectContext, error)
}
