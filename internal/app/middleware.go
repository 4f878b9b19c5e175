package app

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

func (app *Application) attachRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := app.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"uri", r.URL.RequestURI(),
		)

		spanCtx := trace.SpanContextFromContext(r.Context())
		if spanCtx.HasTraceID() {
			logger = logger.With("trace_id", spanCtx.TraceID().String())
		}

		next.ServeHTTP(w, app.contextSetLogger(r, logger))
	})
}
