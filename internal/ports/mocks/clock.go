package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

type MockClock struct {
	mock.Mock
}

type MockClock_Expecter struct {
	mock *mock.Mock
}

func NewMockClock(t testingT) *MockClock {
	m := &MockClock{}
	register(&m.Mock, t)
	return m
}

func (m *MockClock) EXPECT() *MockClock_Expecter {
	return &MockClock_Expecter{mock: &m.Mock}
}

func (m *MockClock) Now() time.Time {
	ret := m.Called()
	return ret.Get(0).(time.Time)
}

func (e *MockClock_Expecter) Now() *mock.Call {
	return e.mock.On("Now")
}

type MockIDGenerator struct {
	mock.Mock
}

type MockIDGenerator_Expecter struct {
	mock *mock.Mock
}

func NewMockIDGenerator(t testingT) *MockIDGenerator {
	m := &MockIDGenerator{}
	register(&m.Mock, t)
	return m
}

func (m *MockIDGenerator) EXPECT() *MockIDGenerator_Expecter {
	return &MockIDGenerator_Expecter{mock: &m.Mock}
}

func (m *MockIDGenerator) NewID(now time.Time) string {
	ret := m.Called(now)
	return ret.String(0)
}

func (e *MockIDGenerator_Expecter) NewID(now interface{}) *mock.Call {
	return e.mock.On("NewID", now)
}
