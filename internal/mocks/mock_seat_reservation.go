package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockReservationCollaborator struct {
	mock.Mock
}

func (m *MockReservationCollaborator) ReserveSeat(ctx context.Context, accountID int64, seatCount int) error {
	args := m.Called(ctx, accountID, seatCount)
	return args.Error(0)
}
