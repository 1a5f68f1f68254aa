package mocks

import (
	"context"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockStatusRepository struct {
	mock.Mock
}

type MockStatusRepository_Expecter struct {
	mock *mock.Mock
}

func NewMockStatusRepository(t testingT) *MockStatusRepository {
	m := &MockStatusRepository{}
	register(&m.Mock, t)
	return m
}

func (m *MockStatusRepository) EXPECT() *MockStatusRepository_Expecter {
	return &MockStatusRepository_Expecter{mock: &m.Mock}
}

func (m *MockStatusRepository) LoadStatus(ctx context.Context) (domain.FrameworkStatus, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(domain.FrameworkStatus), ret.Error(1)
}

func (m *MockStatusRepository) SaveStatus(ctx context.Context, status domain.FrameworkStatus) error {
	return m.Called(ctx, status).Error(0)
}

func (e *MockStatusRepository_Expecter) LoadStatus(ctx interface{}) *mock.Call {
	return e.mock.On("LoadStatus", ctx)
}

func (e *MockStatusRepository_Expecter) SaveStatus(ctx, status interface{}) *mock.Call {
	return e.mock.On("SaveStatus", ctx, status)
}

type MockSessionRepository struct {
	mock.Mock
}

type MockSessionRepository_Expecter struct {
	mock *mock.Mock
}

func NewMockSessionRepository(t testingT) *MockSessionRepository {
	m := &MockSessionRepository{}
	register(&m.Mock, t)
	return m
}

func (m *MockSessionRepository) EXPECT() *MockSessionRepository_Expecter {
	return &MockSessionRepository_Expecter{mock: &m.Mock}
}

func (m *MockSessionRepository) EnsureNamespaces(ctx context.Context, namespaces ...domain.Namespace) error {
	return m.Called(ctx, namespaces).Error(0)
}

func (m *MockSessionRepository) CreateSession(ctx context.Context, session domain.SessionRecord) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) ListSessions(ctx context.Context) ([]domain.SessionRecord, []domain.Skip, error) {
	ret := m.Called(ctx)
	sessions, _ := ret.Get(0).([]domain.SessionRecord)
	skips, _ := ret.Get(1).([]domain.Skip)
	return sessions, skips, ret.Error(2)
}

// EnsureNamespaces matches the variadic namespaces as one slice argument.
func (e *MockSessionRepository_Expecter) EnsureNamespaces(ctx, namespaces interface{}) *mock.Call {
	return e.mock.On("EnsureNamespaces", ctx, namespaces)
}

func (e *MockSessionRepository_Expecter) CreateSession(ctx, session interface{}) *mock.Call {
	return e.mock.On("CreateSession", ctx, session)
}

func (e *MockSessionRepository_Expecter) ListSessions(ctx interface{}) *mock.Call {
	return e.mock.On("ListSessions", ctx)
}

type MockRoleMemoryRepository struct {
	mock.Mock
}

type MockRoleMemoryRepository_Expecter struct {
	mock *mock.Mock
}

func NewMockRoleMemoryRepository(t testingT) *MockRoleMemoryRepository {
	m := &MockRoleMemoryRepository{}
	register(&m.Mock, t)
	return m
}

func (m *MockRoleMemoryRepository) EXPECT() *MockRoleMemoryRepository_Expecter {
	return &MockRoleMemoryRepository_Expecter{mock: &m.Mock}
}

func (m *MockRoleMemoryRepository) CreateRoleMemory(ctx context.Context, memory domain.RoleMemory) error {
	return m.Called(ctx, memory).Error(0)
}

func (m *MockRoleMemoryRepository) SaveRoleMemory(ctx context.Context, memory domain.RoleMemory) error {
	return m.Called(ctx, memory).Error(0)
}

func (m *MockRoleMemoryRepository) GetRoleMemory(ctx context.Context, role domain.RoleID) (domain.RoleMemory, error) {
	ret := m.Called(ctx, role)
	return ret.Get(0).(domain.RoleMemory), ret.Error(1)
}

func (e *MockRoleMemoryRepository_Expecter) CreateRoleMemory(ctx, memory interface{}) *mock.Call {
	return e.mock.On("CreateRoleMemory", ctx, memory)
}

func (e *MockRoleMemoryRepository_Expecter) SaveRoleMemory(ctx, memory interface{}) *mock.Call {
	return e.mock.On("SaveRoleMemory", ctx, memory)
}

func (e *MockRoleMemoryRepository_Expecter) GetRoleMemory(ctx, role interface{}) *mock.Call {
	return e.mock.On("GetRoleMemory", ctx, role)
}

type MockKnowledgeRepository struct {
	mock.Mock
}

type MockKnowledgeRepository_Expecter struct {
	mock *mock.Mock
}

func NewMockKnowledgeRepository(t testingT) *MockKnowledgeRepository {
	m := &MockKnowledgeRepository{}
	register(&m.Mock, t)
	return m
}

func (m *MockKnowledgeRepository) EXPECT() *MockKnowledgeRepository_Expecter {
	return &MockKnowledgeRepository_Expecter{mock: &m.Mock}
}

func (m *MockKnowledgeRepository) ListSharedKnowledge(ctx context.Context) ([]domain.SharedKnowledge, []domain.Skip, error) {
	ret := m.Called(ctx)
	knowledge, _ := ret.Get(0).([]domain.SharedKnowledge)
	skips, _ := ret.Get(1).([]domain.Skip)
	return knowledge, skips, ret.Error(2)
}

func (m *MockKnowledgeRepository) SaveSharedKnowledge(ctx context.Context, knowledge domain.SharedKnowledge) error {
	return m.Called(ctx, knowledge).Error(0)
}

func (e *MockKnowledgeRepository_Expecter) ListSharedKnowledge(ctx interface{}) *mock.Call {
	return e.mock.On("ListSharedKnowledge", ctx)
}

func (e *MockKnowledgeRepository_Expecter) SaveSharedKnowledge(ctx, knowledge interface{}) *mock.Call {
	return e.mock.On("SaveSharedKnowledge", ctx, knowledge)
}

type MockAuditRepository struct {
	mock.Mock
}

type MockAuditRepository_Expecter struct {
	mock *mock.Mock
}

func NewMockAuditRepository(t testingT) *MockAuditRepository {
	m := &MockAuditRepository{}
	register(&m.Mock, t)
	return m
}

func (m *MockAuditRepository) EXPECT() *MockAuditRepository_Expecter {
	return &MockAuditRepository_Expecter{mock: &m.Mock}
}

func (m *MockAuditRepository) AppendAudit(ctx context.Context, entry domain.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (e *MockAuditRepository_Expecter) AppendAudit(ctx, entry interface{}) *mock.Call {
	return e.mock.On("AppendAudit", ctx, entry)
}

type MockProjectContextLoader struct {
	mock.Mock
}

type MockProjectContextLoader_Expecter struct {
	mock *mock.Mock
}

func NewMockProjectContextLoader(t testingT) *MockProjectContextLoader {
	m := &MockProjectContextLoader{}
	register(&m.Mock, t)
	return m
}

func (m *MockProjectContextLoader) EXPECT() *MockProjectContextLoader_Expecter {
	return &MockProjectContextLoader_Expecter{mock: &m.Mock}
}

func (m *MockProjectContextLoader) Load(ctx context.Context) (domain.ProjectContext, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(domain.ProjectContext), ret.Error(1)
}

func (e *MockProjectContextLoader_Expecter) Load(ctx interface{}) *mock.Call {
	return e.mock.On("Load", ctx)
}
