package payment

import (
	"context"
	"log/slog"
)

// LoggingGateway accepts every payment and only logs it. It stands in for a
// real provider in development and tests.
type LoggingGateway struct {
	logger *slog.Logger
}

func NewLoggingGateway(logger *slog.Logger) *LoggingGateway {
	return &LoggingGateway{
		logger: logger,
	}
}

func (g *LoggingGateway) MakePayment(ctx context.Context, accountID int64, amount int) error {
	g.logger.InfoContext(ctx, "payment made", "account_id", accountID, "amount", amount)
	return nil
}
