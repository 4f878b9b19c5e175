package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/cinema-tickets/api"
	"github.com/metinatakli/cinema-tickets/internal/jsonutil"
)

// ValidateRequest rejects requests whose parameters or body do not match the
// OpenAPI document. Requests for paths the document does not describe are
// passed through untouched.
func ValidateRequest(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	// server URLs would pin matching to a host
	doc.Servers = nil

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building openapi router: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
			}

			err = openapi3filter.ValidateRequest(r.Context(), input)
			if err != nil {
				resp := api.ErrorResponse{
					Message:   firstLine(err.Error()),
					RequestId: middleware.GetReqID(r.Context()),
					Timestamp: time.Now(),
				}

				jsonutil.WriteJSON(w, http.StatusBadRequest, resp, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
