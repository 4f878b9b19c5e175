package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-tickets/api"
	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/metinatakli/cinema-tickets/internal/handler"
	appmiddleware "github.com/metinatakli/cinema-tickets/internal/middleware"
	"github.com/metinatakli/cinema-tickets/internal/payment"
	"github.com/metinatakli/cinema-tickets/internal/repository"
	"github.com/metinatakli/cinema-tickets/internal/reservation"
	"github.com/metinatakli/cinema-tickets/internal/ticket"
	appvalidator "github.com/metinatakli/cinema-tickets/internal/validator"
	"github.com/metinatakli/cinema-tickets/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const serviceName = "cinema-tickets-api"

var (
	version = vcs.Version()
)

type Application struct {
	config            Config
	logger            *slog.Logger
	validator         *validator.Validate
	purchaseValidator *ticket.PurchaseValidator
	healthcheck       *handler.HealthcheckHandler
	validateRequest   func(http.Handler) http.Handler
	purchaseCounter   metric.Int64Counter
}

type Config struct {
	Port               int
	Env                string
	ReservationBackend string
	OtelCollectorUrl   string
	DB                 DBConfig
	Redis              RedisConfig
	Stripe             StripeConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type StripeConfig struct {
	SecretKey string
	Currency  string
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	validator *validator.Validate,
	payments domain.PaymentCollaborator,
	reservations domain.ReservationCollaborator) (*Application, error) {

	doc, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}

	validateRequest, err := appmiddleware.ValidateRequest(doc)
	if err != nil {
		return nil, err
	}

	purchaseCounter, err := otel.Meter(serviceName).Int64Counter(
		purchaseCounterName,
		metric.WithDescription("Ticket purchase attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating purchase counter: %w", err)
	}

	return &Application{
		config:            cfg,
		logger:            logger,
		validator:         validator,
		purchaseValidator: ticket.NewPurchaseValidator(payments, reservations),
		healthcheck:       handler.NewHealthcheckHandler(cfg.Env),
		validateRequest:   validateRequest,
		purchaseCounter:   purchaseCounter,
	}, nil
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.ReservationBackend, "reservation-backend", "log", "Seat reservation backend (postgres|redis|log)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector gRPC endpoint")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", "", "Stripe secret key (payments are only logged when empty)")
	flag.StringVar(&cfg.Stripe.Currency, "stripe-currency", string(stripe.CurrencyGBP), "Stripe charge currency")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := newLogger(os.Stdout)

	telemetry, err := setupTelemetry(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer telemetry.Shutdown(context.Background())

	var (
		db          *pgxpool.Pool
		redisClient *redis.Client
	)

	if cfg.Stripe.SecretKey != "" || cfg.ReservationBackend == "postgres" {
		db, err = NewDatabasePool(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	if cfg.ReservationBackend == "redis" {
		redisClient, err = NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	payments := newPaymentCollaborator(cfg, logger, db)

	reservations, err := newReservationCollaborator(cfg, logger, db, redisClient)
	if err != nil {
		return err
	}

	app, err := NewApp(cfg, logger, appvalidator.NewValidator(), payments, reservations)
	if err != nil {
		return err
	}

	return app.run()
}

func newPaymentCollaborator(cfg Config, logger *slog.Logger, db *pgxpool.Pool) domain.PaymentCollaborator {
	if cfg.Stripe.SecretKey == "" {
		logger.Warn("stripe key not set, payments will only be logged")
		return payment.NewLoggingGateway(logger)
	}

	stripe.Key = cfg.Stripe.SecretKey

	return payment.NewStripeGateway(cfg.Stripe.Currency, repository.NewPostgresPaymentRepository(db))
}

func newReservationCollaborator(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient *redis.Client) (domain.ReservationCollaborator, error) {

	switch cfg.ReservationBackend {
	case "postgres":
		return reservation.NewAllocator(repository.NewPostgresSeatAllocationRepository(db)), nil
	case "redis":
		return reservation.NewRedisAllocator(redisClient), nil
	case "log":
		return reservation.NewLoggingReserver(logger), nil
	default:
		return nil, fmt.Errorf("unknown reservation backend %q", cfg.ReservationBackend)
	}
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(appmiddleware.NotFoundHandler)
	r.MethodNotAllowed(appmiddleware.MethodNotAllowedHandler)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.Logger)
	r.Use(appmiddleware.RecoverPanic(app.logger))
	r.Use(app.attachRequestLogger)
	r.Use(app.validateRequest)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck.GetHealth)
		r.Post("/purchases", app.PurchaseTicketsHandler)
		r.Post("/purchases/quote", app.QuoteTicketsHandler)
	})

	return r
}
