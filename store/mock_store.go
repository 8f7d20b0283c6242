package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cyp0633/libcapacity/assignment"
	"github.com/cyp0633/libcapacity/capacity"
)

// MockStore implements Store for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CommitmentsFor(ctx context.Context, responsibleID string) ([]capacity.Commitment, error) {
	args := m.Called(ctx, responsibleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]capacity.Commitment), args.Error(1)
}

func (m *MockStore) Groups(ctx context.Context, key assignment.Key) ([]assignment.Group, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assignment.Group), args.Error(1)
}

func (m *MockStore) PutCommitment(ctx context.Context, c capacity.Commitment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStore) PutGroup(ctx context.Context, g assignment.Group) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
