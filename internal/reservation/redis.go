package reservation

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const seatReservationStream = "seat_reservations"

func seatsReservedKey(accountID int64) string {
	return fmt.Sprintf("seats_reserved:%d", accountID)
}

// RedisAllocator keeps a running seat count per account and appends every
// reservation to a stream, both in one MULTI/EXEC.
type RedisAllocator struct {
	redis redis.UniversalClient
}

func NewRedisAllocator(client redis.UniversalClient) *RedisAllocator {
	return &RedisAllocator{
		redis: client,
	}
}

func (a *RedisAllocator) ReserveSeat(ctx context.Context, accountID int64, seatCount int) error {
	pipe := a.redis.TxPipeline()

	pipe.IncrBy(ctx, seatsReservedKey(accountID), int64(seatCount))
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: seatReservationStream,
		Values: map[string]any{
			"account_id": accountID,
			"seat_count": seatCount,
		},
	})

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("reserving %d seats for account %d: %w", seatCount, accountID, err)
	}

	return nil
}
