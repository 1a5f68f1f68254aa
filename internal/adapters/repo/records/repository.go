package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
)

// Repository maps domain records onto a RecordStore through a Codec.
type Repository struct {
	store ports.RecordStore
	codec Codec
}

var (
	_ ports.StatusRepository     = (*Repository)(nil)
	_ ports.SessionRepository    = (*Repository)(nil)
	_ ports.RoleMemoryRepository = (*Repository)(nil)
	_ ports.KnowledgeRepository  = (*Repository)(nil)
	_ ports.AuditRepository      = (*Repository)(nil)
	_ ports.RecordMaintenance    = (*Repository)(nil)
	_ ports.TreeRemover          = (*Repository)(nil)
)

func NewRepository(store ports.RecordStore, codec Codec) *Repository {
	if codec == nil {
		codec = JSONCodec{}
	}

	return &Repository{store: store, codec: codec}
}

func (r *Repository) EnsureNamespaces(ctx context.Context, namespaces ...domain.Namespace) error {
	for _, ns := range namespaces {
		if err := r.store.Ensure(ctx, ns); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) LoadStatus(ctx context.Context) (domain.FrameworkStatus, error) {
	var schema statusSchema
	if err := r.read(ctx, domain.NamespaceRoot, domain.FrameworkStatusKey, &schema); err != nil {
		return domain.FrameworkStatus{}, err
	}
	if err := schema.validateVersion("framework status"); err != nil {
		return domain.FrameworkStatus{}, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)
	}

	return fromStatusSchema(schema), nil
}

func (r *Repository) SaveStatus(ctx context.Context, status domain.FrameworkStatus) error {
	schema := toStatusSchema(status)
	schema.applyDefaults()

	data, err := r.codec.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encode framework status: %w", err)
	}

	return r.store.Put(ctx, domain.NamespaceRoot, domain.FrameworkStatusKey, data)
}

func (r *Repository) CreateSession(ctx context.Context, session domain.SessionRecord) error {
	schema := toSessionSchema(session)
	schema.applyDefaults()

	data, err := r.codec.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	return r.store.Create(ctx, domain.NamespaceSessions, domain.SessionKey(session.SessionID), data)
}

func (r *Repository) ListSessions(ctx context.Context) ([]domain.SessionRecord, []domain.Skip, error) {
	infos, err := r.store.List(ctx, domain.NamespaceSessions)
	if err != nil {
		return nil, nil, err
	}

	sessions := make([]domain.SessionRecord, 0, len(infos))
	var skips []domain.Skip
	for _, info := range infos {
		var schema sessionSchema
		if skip, ok := r.readForBatch(ctx, domain.NamespaceSessions, info.Key, &schema); !ok {
			skips = append(skips, skip)
			continue
		}
		if err := schema.validateVersion("session"); err != nil {
			skips = append(skips, malformed(domain.NamespaceSessions, info.Key, err))
			continue
		}
		sessions = append(sessions, fromSessionSchema(schema))
	}

	return sessions, skips, nil
}

// CreateRoleMemory never replaces an existing record; it returns domain.ErrRecordExists instead.
func (r *Repository) CreateRoleMemory(ctx context.Context, memory domain.RoleMemory) error {
	data, err := r.encodeRoleMemory(memory)
	if err != nil {
		return err
	}

	return r.store.Create(ctx, domain.NamespaceRoles, domain.RoleMemoryKey(memory.RoleID), data)
}

// SaveRoleMemory replaces a role's memory. Only the agents owning the memory should call it.
func (r *Repository) SaveRoleMemory(ctx context.Context, memory domain.RoleMemory) error {
	data, err := r.encodeRoleMemory(memory)
	if err != nil {
		return err
	}

	return r.store.Put(ctx, domain.NamespaceRoles, domain.RoleMemoryKey(memory.RoleID), data)
}

func (r *Repository) GetRoleMemory(ctx context.Context, role domain.RoleID) (domain.RoleMemory, error) {
	var schema roleMemorySchema
	if err := r.read(ctx, domain.NamespaceRoles, domain.RoleMemoryKey(role), &schema); err != nil {
		return domain.RoleMemory{}, err
	}
	if err := schema.validateVersion("role memory"); err != nil {
		return domain.RoleMemory{}, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)
	}

	memory := fromRoleMemorySchema(schema)
	if memory.RoleID == "" {
		memory.RoleID = role
	}

	return memory, nil
}

func (r *Repository) ListSharedKnowledge(ctx context.Context) ([]domain.SharedKnowledge, []domain.Skip, error) {
	infos, err := r.store.List(ctx, domain.NamespaceShared)
	if err != nil {
		return nil, nil, err
	}

	knowledge := make([]domain.SharedKnowledge, 0, len(infos))
	var skips []domain.Skip
	for _, info := range infos {
		var schema sharedKnowledgeSchema
		if skip, ok := r.readForBatch(ctx, domain.NamespaceShared, info.Key, &schema); !ok {
			skips = append(skips, skip)
			continue
		}
		if err := schema.validateVersion("shared knowledge"); err != nil {
			skips = append(skips, malformed(domain.NamespaceShared, info.Key, err))
			continue
		}
		knowledge = append(knowledge, domain.SharedKnowledge{
			ID:       info.Key,
			Keywords: schema.Keywords,
			Summary:  schema.Summary,
		})
	}

	return knowledge, skips, nil
}

func (r *Repository) SaveSharedKnowledge(ctx context.Context, knowledge domain.SharedKnowledge) error {
	if err := domain.ValidateKey(knowledge.ID); err != nil {
		return err
	}

	knowledge.NormalizeKeywords()
	schema := sharedKnowledgeSchema{Keywords: knowledge.Keywords, Summary: knowledge.Summary}
	schema.applyDefaults()

	data, err := r.codec.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encode shared knowledge: %w", err)
	}

	return r.store.Put(ctx, domain.NamespaceShared, knowledge.ID, data)
}

func (r *Repository) AppendAudit(ctx context.Context, entry domain.AuditEntry) error {
	schema := auditSchema{
		OriginalPrompt: entry.OriginalPrompt,
		Enhancement:    toPayloadSchema(entry.Enhancement),
		Timestamp:      formatTime(entry.Timestamp),
	}
	schema.applyDefaults()

	data, err := r.codec.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	return r.store.Create(ctx, domain.NamespaceAudit, domain.AuditKey(entry.ID), data)
}

func (r *Repository) ListRecords(ctx context.Context, ns domain.Namespace) ([]ports.RecordInfo, error) {
	return r.store.List(ctx, ns)
}

func (r *Repository) DeleteRecord(ctx context.Context, ns domain.Namespace, key string) error {
	return r.store.Delete(ctx, ns, key)
}

// RemoveTree is a no-op for stores without a directory tree of their own.
func (r *Repository) RemoveTree(ctx context.Context, keep ...string) error {
	remover, ok := r.store.(ports.TreeRemover)
	if !ok {
		return nil
	}
	return remover.RemoveTree(ctx, keep...)
}

func (r *Repository) encodeRoleMemory(memory domain.RoleMemory) ([]byte, error) {
	if !memory.RoleID.Valid() {
		return nil, &domain.UnknownRoleError{Role: string(memory.RoleID)}
	}

	schema := toRoleMemorySchema(memory)
	schema.applyDefaults()

	data, err := r.codec.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode role memory %q: %w", memory.RoleID, err)
	}

	return data, nil
}

func (r *Repository) read(ctx context.Context, ns domain.Namespace, key string, out any) error {
	data, err := r.store.Get(ctx, ns, key)
	if err != nil {
		return err
	}

	if err := r.codec.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w: %w", ns, key, domain.ErrMalformedRecord, err)
	}

	return nil
}

func (r *Repository) readForBatch(ctx context.Context, ns domain.Namespace, key string, out any) (domain.Skip, bool) {
	data, err := r.store.Get(ctx, ns, key)
	if err != nil {
		return domain.Skip{Namespace: ns, Key: key, Reason: domain.SkipUnreadable, Err: err}, false
	}

	if err := r.codec.Unmarshal(data, out); err != nil {
		return malformed(ns, key, err), false
	}

	return domain.Skip{}, true
}

func malformed(ns domain.Namespace, key string, err error) domain.Skip {
	return domain.Skip{
		Namespace: ns,
		Key:       key,
		Reason:    domain.SkipMalformed,
		Err:       fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err),
	}
}

func toStatusSchema(status domain.FrameworkStatus) statusSchema {
	return statusSchema{
		FrameworkActive:      status.Active,
		SessionID:            string(status.SessionID),
		SessionStarted:       formatTime(status.SessionStartedAt),
		AgentsAvailable:      roleStrings(status.AvailableRoles),
		CommunicationEnabled: status.CommunicationEnabled,
		MemorySystemActive:   status.MemoryActive,
	}
}

func fromStatusSchema(schema statusSchema) domain.FrameworkStatus {
	return domain.FrameworkStatus{
		Active:               schema.FrameworkActive,
		SessionID:            domain.SessionID(schema.SessionID),
		SessionStartedAt:     parseTime(schema.SessionStarted),
		AvailableRoles:       parseRoles(schema.AgentsAvailable),
		CommunicationEnabled: schema.CommunicationEnabled,
		MemoryActive:         schema.MemorySystemActive,
	}
}

func toSessionSchema(session domain.SessionRecord) sessionSchema {
	return sessionSchema{
		SessionID:         string(session.SessionID),
		StartedAt:         formatTime(session.StartedAt),
		AgentsInitialized: roleStrings(session.InitializedRoles),
		FrameworkVersion:  session.FrameworkVersion,
	}
}

func fromSessionSchema(schema sessionSchema) domain.SessionRecord {
	return domain.SessionRecord{
		SessionID:        domain.SessionID(schema.SessionID),
		StartedAt:        parseTime(schema.StartedAt),
		InitializedRoles: parseRoles(schema.AgentsInitialized),
		FrameworkVersion: schema.FrameworkVersion,
	}
}

func toRoleMemorySchema(memory domain.RoleMemory) roleMemorySchema {
	return roleMemorySchema{
		AgentName:            string(memory.RoleID),
		InitializedAt:        formatTime(memory.InitializedAt),
		KnowledgeAreas:       nonNil(memory.KnowledgeAreas),
		LearnedPatterns:      nonNil(memory.LearnedPatterns),
		SuccessfulApproaches: nonNil(memory.SuccessfulApproaches),
		CollaborationHistory: nonNil(memory.CollaborationHistory),
	}
}

func fromRoleMemorySchema(schema roleMemorySchema) domain.RoleMemory {
	return domain.RoleMemory{
		RoleID:               domain.RoleID(schema.AgentName),
		InitializedAt:        parseTime(schema.InitializedAt),
		KnowledgeAreas:       nonNil(schema.KnowledgeAreas),
		LearnedPatterns:      nonNil(schema.LearnedPatterns),
		SuccessfulApproaches: nonNil(schema.SuccessfulApproaches),
		CollaborationHistory: nonNil(schema.CollaborationHistory),
	}
}

func toPayloadSchema(payload domain.EnrichmentPayload) payloadSchema {
	suggestions := make([]suggestionSchema, 0, len(payload.Suggestions))
	for _, s := range payload.Suggestions {
		suggestions = append(suggestions, suggestionSchema{
			RoleID:     string(s.RoleID),
			Rationale:  s.Rationale,
			Confidence: s.Confidence,
		})
	}

	knowledge := make([]knowledgeSchema, 0, len(payload.RelevantMemory))
	for _, k := range payload.RelevantMemory {
		knowledge = append(knowledge, knowledgeSchema{
			SourceID:     k.SourceID,
			Summary:      k.Summary,
			RelevanceTag: k.RelevanceTag,
		})
	}

	return payloadSchema{
		Active:                  payload.Active,
		Suggestions:             suggestions,
		CoordinationRecommended: payload.CoordinationRecommended,
		ParallelOpportunity:     payload.ParallelOpportunity,
		RelevantMemory:          knowledge,
		Recommendations:         nonNil(payload.Recommendations),
	}
}

func roleStrings(roles []domain.RoleID) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role))
	}
	return out
}

// parseRoles drops entries outside the fixed role set.
func parseRoles(raw []string) []domain.RoleID {
	out := make([]domain.RoleID, 0, len(raw))
	for _, value := range raw {
		role := domain.RoleID(strings.TrimSpace(value))
		if !role.Valid() {
			continue
		}
		out = append(out, role)
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// parseTime accepts RFC3339 and the offset-less ISO form older hook scripts wrote.
func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed
		}
	}

	return time.Time{}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
