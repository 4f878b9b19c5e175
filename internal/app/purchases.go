package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/metinatakli/cinema-tickets/api"
	"github.com/metinatakli/cinema-tickets/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	outcomeCompleted = "completed"
	outcomeQuoted    = "quoted"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

func (app *Application) PurchaseTicketsHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	order, ok := app.readPurchaseOrder(w, r)
	if !ok {
		return
	}

	quantities, err := app.purchaseValidator.Purchase(r.Context(), order)
	if err != nil {
		var invalidPurchaseErr *domain.InvalidPurchaseError

		switch {
		case errors.As(err, &invalidPurchaseErr):
			logger.Warn("ticket purchase rejected", "reason", invalidPurchaseErr.Reason.Code())
			app.recordPurchase(r.Context(), outcomeRejected, invalidPurchaseErr.Reason.Code())
			app.rejectedPurchaseResponse(w, r, invalidPurchaseErr)
		default:
			logger.Error("ticket purchase failed", "account_id", *order.AccountID, "error", err)
			app.recordPurchase(r.Context(), outcomeFailed, "")
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("tickets purchased",
		"account_id", *order.AccountID,
		"total_cost", quantities.TotalCost(),
		"total_seats", quantities.TotalSeats())
	app.recordPurchase(r.Context(), outcomeCompleted, "")

	err = app.writeJSON(w, http.StatusCreated, toPurchaseResponse(*order.AccountID, quantities), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) QuoteTicketsHandler(w http.ResponseWriter, r *http.Request) {
	order, ok := app.readPurchaseOrder(w, r)
	if !ok {
		return
	}

	quantities, err := app.purchaseValidator.Quote(order)
	if err != nil {
		var invalidPurchaseErr *domain.InvalidPurchaseError
		if !errors.As(err, &invalidPurchaseErr) {
			app.serverErrorResponse(w, r, err)
			return
		}

		app.contextGetLogger(r).Warn("ticket quote rejected", "reason", invalidPurchaseErr.Reason.Code())
		app.recordPurchase(r.Context(), outcomeRejected, invalidPurchaseErr.Reason.Code())
		app.rejectedPurchaseResponse(w, r, invalidPurchaseErr)
		return
	}

	app.recordPurchase(r.Context(), outcomeQuoted, "")

	err = app.writeJSON(w, http.StatusOK, toPurchaseResponse(*order.AccountID, quantities), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// readPurchaseOrder decodes and validates the request body, writing the error
// response itself when it reports false.
func (app *Application) readPurchaseOrder(w http.ResponseWriter, r *http.Request) (domain.PurchaseOrder, bool) {
	var input api.PurchaseRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return domain.PurchaseOrder{}, false
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return domain.PurchaseOrder{}, false
	}

	return toPurchaseOrder(input), true
}

func (app *Application) recordPurchase(ctx context.Context, outcome, reason string) {
	attrs := []attribute.KeyValue{attribute.String("outcome", outcome)}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}

	app.purchaseCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func toPurchaseOrder(input api.PurchaseRequest) domain.PurchaseOrder {
	var requests []*domain.TicketRequest

	if input.TicketRequests != nil {
		requests = make([]*domain.TicketRequest, len(input.TicketRequests))

		for i, v := range input.TicketRequests {
			if v == nil {
				continue
			}

			var category domain.TicketCategory
			if v.Type != nil {
				category = domain.TicketCategory(*v.Type)
			}

			requests[i] = domain.NewTicketRequest(category, v.Quantity)
		}
	}

	return domain.PurchaseOrder{
		AccountID: input.AccountId,
		Requests:  requests,
	}
}

func toPurchaseResponse(accountID int64, quantities domain.TicketQuantities) api.PurchaseResponse {
	return api.PurchaseResponse{
		AccountId:  accountID,
		TotalCost:  quantities.TotalCost(),
		TotalSeats: quantities.TotalSeats(),
		Tickets: api.TicketCounts{
			Total:  quantities.TotalTickets,
			Adult:  quantities.Adult,
			Child:  quantities.Child,
			Infant: quantities.Infant,
		},
	}
}
