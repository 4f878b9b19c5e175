package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReservationCollaborator reserves seats for a purchase. Like payment it is
// side-effect only.
type ReservationCollaborator interface {
	ReserveSeat(ctx context.Context, accountID int64, seatCount int) error
}

type SeatAllocation struct {
	ID        uuid.UUID
	AccountID int64
	SeatCount int
	CreatedAt time.Time
}

func NewSeatAllocation(accountID int64, seatCount int) *SeatAllocation {
	return &SeatAllocation{
		ID:        uuid.New(),
		AccountID: accountID,
		SeatCount: seatCount,
	}
}

type SeatAllocationRepository interface {
	Create(ctx context.Context, allocation *SeatAllocation) error
}
