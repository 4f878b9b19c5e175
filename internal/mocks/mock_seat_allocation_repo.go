package mocks

import (
	"context"

	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatAllocationRepo struct {
	mock.Mock
}

func (m *MockSeatAllocationRepo) Create(ctx context.Context, allocation *domain.SeatAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}
