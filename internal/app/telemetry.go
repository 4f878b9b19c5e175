package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const (
	purchaseCounterName = "ticket_purchases"

	purchaseMetricsInterval  = 15 * time.Second
	telemetryShutdownTimeout = 5 * time.Second

	attrReservationBackend = attribute.Key("cinema.reservation_backend")
	attrStripeEnabled      = attribute.Key("cinema.stripe_enabled")
)

// telemetry holds the providers exporting purchase traces, metrics and logs to
// the collector. All of them are nil when no collector is configured.
type telemetry struct {
	logger         *slog.Logger
	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
	loggerProvider *log.LoggerProvider
}

func setupTelemetry(ctx context.Context, cfg Config, logger *slog.Logger) (*telemetry, error) {
	t := &telemetry{logger: logger}

	if cfg.OtelCollectorUrl == "" {
		logger.Info("otel collector not configured, purchase telemetry stays local")
		return t, nil
	}

	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	t.tracerProvider, err = newTracerProvider(ctx, cfg.OtelCollectorUrl, res)
	if err != nil {
		return nil, err
	}

	t.meterProvider, err = newMeterProvider(ctx, cfg.OtelCollectorUrl, res)
	if err != nil {
		t.Shutdown(ctx)
		return nil, err
	}

	t.loggerProvider, err = newLoggerProvider(ctx, cfg.OtelCollectorUrl, res)
	if err != nil {
		t.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(t.tracerProvider)
	otel.SetMeterProvider(t.meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	global.SetLoggerProvider(t.loggerProvider)

	return t, nil
}

// serviceResource tags every signal with the collaborators this instance runs
// with, so purchase failures can be split by backend in the collector.
func serviceResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
			semconv.DeploymentEnvironment(cfg.Env),
			attrReservationBackend.String(cfg.ReservationBackend),
			attrStripeEnabled.Bool(cfg.Stripe.SecretKey != ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating otel resource: %w", err)
	}

	return res, nil
}

func newTracerProvider(ctx context.Context, endpoint string, res *resource.Resource) (*trace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("creating otel trace exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
		trace.WithResource(res),
		trace.WithBatcher(exporter),
	), nil
}

func newMeterProvider(ctx context.Context, endpoint string, res *resource.Resource) (*metric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("creating otel metric exporter: %w", err)
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(purchaseMetricsInterval))),
		metric.WithView(purchaseCounterView()),
	), nil
}

// purchaseCounterView keeps the purchase counter's cardinality to outcome and
// rejection reason.
func purchaseCounterView() metric.View {
	return metric.NewView(
		metric.Instrument{Name: purchaseCounterName},
		metric.Stream{AttributeFilter: attribute.NewAllowKeysFilter("outcome", "reason")},
	)
}

func newLoggerProvider(ctx context.Context, endpoint string, res *resource.Resource) (*log.LoggerProvider, error) {
	exporter, err := otlploggrpc.New(ctx,
		otlploggrpc.WithInsecure(),
		otlploggrpc.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("creating otel log exporter: %w", err)
	}

	return log.NewLoggerProvider(
		log.WithResource(res),
		log.WithProcessor(log.NewBatchProcessor(exporter)),
	), nil
}

// Shutdown flushes whatever providers were started.
func (t *telemetry) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, telemetryShutdownTimeout)
	defer cancel()

	var errs []error

	if t.tracerProvider != nil {
		errs = append(errs, t.tracerProvider.Shutdown(ctx))
	}
	if t.meterProvider != nil {
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}
	if t.loggerProvider != nil {
		errs = append(errs, t.loggerProvider.Shutdown(ctx))
	}

	err := errors.Join(errs...)
	if err != nil {
		t.logger.Error("failed to flush purchase telemetry", "error", err)
	}
}

// newLogger writes to the console and, through the otelslog bridge, to the
// global logger provider once setupTelemetry has installed one.
func newLogger(console io.Writer) *slog.Logger {
	return slog.New(newTeeHandler(
		slog.NewTextHandler(console, nil),
		otelslog.NewHandler(serviceName),
	))
}

// teeHandler sends each record to a console handler and an exported handler,
// skipping whichever is disabled for the record's level.
type teeHandler struct {
	console  slog.Handler
	exported slog.Handler
}

func newTeeHandler(console, exported slog.Handler) *teeHandler {
	return &teeHandler{
		console:  console,
		exported: exported,
	}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.exported.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error

	for _, handler := range []slog.Handler{h.console, h.exported} {
		if handler.Enabled(ctx, record.Level) {
			errs = append(errs, handler.Handle(ctx, record.Clone()))
		}
	}

	return errors.Join(errs...)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newTeeHandler(h.console.WithAttrs(attrs), h.exported.WithAttrs(attrs))
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return newTeeHandler(h.console.WithGroup(name), h.exported.WithGroup(name))
}
