package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentCollaborator takes payment for a purchase. It returns no result and
// cannot be queried for prior payments.
type PaymentCollaborator interface {
	MakePayment(ctx context.Context, accountID int64, amount int) error
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

type Payment struct {
	ID        int
	AccountID int64
	Reference string
	Amount    decimal.Decimal
	Currency  string
	Status    PaymentStatus
	CreatedAt time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
}
