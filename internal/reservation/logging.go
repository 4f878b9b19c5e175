package reservation

import (
	"context"
	"log/slog"
)

type LoggingReserver struct {
	logger *slog.Logger
}

func NewLoggingReserver(logger *slog.Logger) *LoggingReserver {
	return &LoggingReserver{
		logger: logger,
	}
}

func (r *LoggingReserver) ReserveSeat(ctx context.Context, accountID int64, seatCount int) error {
	r.logger.InfoContext(ctx, "seats reserved", "account_id", accountID, "seat_count", seatCount)
	return nil
}
