package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-tickets/api"
	"github.com/metinatakli/cinema-tickets/internal/domain"
	appvalidator "github.com/metinatakli/cinema-tickets/internal/validator"
)

func (app *Application) logError(r *http.Request, err error) {
	app.contextGetLogger(r).Error(err.Error())
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeErrorResponse(w, r, status, api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	})
}

func (app *Application) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, resp any) {
	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          "One or more fields have invalid values",
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, len(validationErrs)),
	}

	for i, fieldErr := range validationErrs {
		resp.ValidationErrors[i] = api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		}
	}

	app.writeErrorResponse(w, r, http.StatusBadRequest, resp)
}

func (app *Application) rejectedPurchaseResponse(w http.ResponseWriter, r *http.Request, err *domain.InvalidPurchaseError) {
	code := err.Reason.Code()

	app.writeErrorResponse(w, r, http.StatusUnprocessableEntity, api.ErrorResponse{
		Message:   err.Error(),
		Code:      &code,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	})
}
