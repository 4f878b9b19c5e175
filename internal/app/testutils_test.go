package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/metinatakli/cinema-tickets/internal/mocks"
	"github.com/metinatakli/cinema-tickets/internal/validator"
)

func newTestApplication(
	t *testing.T,
	payments domain.PaymentCollaborator,
	reservations domain.ReservationCollaborator) *Application {

	if payments == nil {
		payments = new(mocks.MockPaymentCollaborator)
	}

	if reservations == nil {
		reservations = new(mocks.MockReservationCollaborator)
	}

	app, err := NewApp(
		Config{Env: "test"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator.NewValidator(),
		payments,
		reservations,
	)
	if err != nil {
		t.Fatalf("failed to create application: %v", err)
	}

	return app
}

func executeRequest(t *testing.T, handler http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader

	switch v := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(v)
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var resp T
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return resp
}

func ptr[T any](v T) *T {
	return &v
}
