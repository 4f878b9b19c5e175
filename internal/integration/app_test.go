package integration_test

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-tickets/internal/app"
	"github.com/metinatakli/cinema-tickets/internal/payment"
	"github.com/metinatakli/cinema-tickets/internal/repository"
	"github.com/metinatakli/cinema-tickets/internal/reservation"
	appvalidator "github.com/metinatakli/cinema-tickets/internal/validator"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
)

const (
	backendPostgres = "postgres"
	backendRedis    = "redis"
)

// TestApp serves the same payment ledger with two seat reservation backends.
type TestApp struct {
	App         *app.Application
	RedisApp    *app.Application
	DB          *pgxpool.Pool
	RedisClient *redis.Client
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	paymentRepo := repository.NewPostgresPaymentRepository(db)
	seatAllocationRepo := repository.NewPostgresSeatAllocationRepository(db)

	payments := payment.NewStripeGateway(
		TestCurrency,
		paymentRepo,
		payment.WithIntentCreator(succeededIntent),
	)

	postgresApp, err := app.NewApp(cfg, logger, validator, payments, reservation.NewAllocator(seatAllocationRepo))
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, err
	}

	redisApp, err := app.NewApp(cfg, logger, validator, payments, reservation.NewRedisAllocator(redisClient))
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, err
	}

	return &TestApp{
		App:         postgresApp,
		RedisApp:    redisApp,
		DB:          db,
		RedisClient: redisClient,
	}, nil
}

func (a *TestApp) Handler(backend string) http.Handler {
	if backend == backendRedis {
		return a.RedisApp.Routes()
	}

	return a.App.Routes()
}

func (a *TestApp) Close() {
	a.RedisClient.Close()
	a.DB.Close()
}

func succeededIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return &stripe.PaymentIntent{
		ID:       "pi_" + uuid.NewString(),
		Amount:   *params.Amount,
		Currency: stripe.Currency(*params.Currency),
		Status:   stripe.PaymentIntentStatusSucceeded,
	}, nil
}
