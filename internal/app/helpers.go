package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/metinatakli/cinema-tickets/internal/jsonutil"
)

type contextKey string

const loggerContextKey = contextKey("logger")

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	return jsonutil.WriteJSON(w, status, data, headers)
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return jsonutil.ReadJSON(w, r, dst)
}

func (app *Application) contextSetLogger(r *http.Request, logger *slog.Logger) *http.Request {
	ctx := context.WithValue(r.Context(), loggerContextKey, logger)
	return r.WithContext(ctx)
}

// contextGetLogger returns the request scoped logger, falling back to the
// application logger for requests that did not pass through the middleware.
func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}
