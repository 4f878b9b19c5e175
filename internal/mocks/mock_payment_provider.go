package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPaymentCollaborator struct {
	mock.Mock
}

func (m *MockPaymentCollaborator) MakePayment(ctx context.Context, accountID int64, amount int) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}
