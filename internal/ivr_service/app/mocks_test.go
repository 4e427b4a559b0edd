package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
)

// --- Mocks shared by the app-layer tests ---

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) GetByPhone(ctx context.Context, phoneNumber string) (*domain.IdentityRecord, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdentityRecord), args.Error(1)
}

func (m *MockIdentityRepository) SetVerified(ctx context.Context, phoneNumber string, verified bool) error {
	args := m.Called(ctx, phoneNumber, verified)
	return args.Error(0)
}

type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) GetByID(ctx context.Context, id string) (*domain.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockClaimRepository) ListByPhone(ctx context.Context, phoneNumber string) ([]*domain.Claim, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Claim), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Get(ctx context.Context, callSID string) (*domain.CallSession, error) {
	args := m.Called(ctx, callSID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CallSession), args.Error(1)
}

func (m *MockSessionStore) Put(ctx context.Context, callSID string, session *domain.CallSession) error {
	args := m.Called(ctx, callSID, session)
	return args.Error(0)
}

func (m *MockSessionStore) Clear(ctx context.Context, callSID string) error {
	args := m.Called(ctx, callSID)
	return args.Error(0)
}
