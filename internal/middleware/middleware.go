package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/cinema-tickets/api"
	"github.com/metinatakli/cinema-tickets/internal/jsonutil"
)

func RecoverPanic(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error(fmt.Sprintf("%v", err), "method", r.Method, "uri", r.URL.RequestURI())

					resp := api.ErrorResponse{
						Message:   "The server encountered a problem and could not process your request",
						RequestId: middleware.GetReqID(r.Context()),
						Timestamp: time.Now(),
					}

					jsonutil.WriteJSON(w, http.StatusInternalServerError, resp, http.Header{
						"Connection": []string{"close"},
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	resp := api.ErrorResponse{
		Message:   "Resource not found",
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	jsonutil.WriteJSON(w, http.StatusNotFound, resp, nil)
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	resp := api.ErrorResponse{
		Message:   "The " + r.Method + " method is not supported for this resource",
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	jsonutil.WriteJSON(w, http.StatusMethodNotAllowed, resp, nil)
}
