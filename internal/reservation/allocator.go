package reservation

import (
	"context"
	"fmt"

	"github.com/metinatakli/cinema-tickets/internal/domain"
)

// Allocator records each seat reservation as a seat allocation row.
type Allocator struct {
	allocationRepo domain.SeatAllocationRepository
}

func NewAllocator(allocationRepo domain.SeatAllocationRepository) *Allocator {
	return &Allocator{
		allocationRepo: allocationRepo,
	}
}

func (a *Allocator) ReserveSeat(ctx context.Context, accountID int64, seatCount int) error {
	allocation := domain.NewSeatAllocation(accountID, seatCount)

	err := a.allocationRepo.Create(ctx, allocation)
	if err != nil {
		return fmt.Errorf("allocating %d seats for account %d: %w", seatCount, accountID, err)
	}

	return nil
}
