package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/draftboard/draftboard/internal/domain/session"
)

// MockDirectory is a mock implementation of session.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Lookup(ctx context.Context, studentID string) (*session.UserSession, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.UserSession), args.Error(1)
}

func (m *MockDirectory) Upsert(ctx context.Context, u session.UserSession) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockDirectory) ListAll(ctx context.Context) ([]session.UserSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]session.UserSession), args.Error(1)
}
