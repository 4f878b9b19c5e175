package api

import "time"

type PurchaseRequest struct {
	AccountId      *int64           `json:"accountId"`
	TicketRequests []*TicketRequest `json:"ticketRequests" validate:"dive"`
}

type TicketRequest struct {
	Type     *string `json:"type"`
	Quantity int     `json:"quantity" validate:"gte=0,lte=25"`
}

type PurchaseResponse struct {
	AccountId  int64        `json:"accountId"`
	TotalCost  int          `json:"totalCost"`
	TotalSeats int          `json:"totalSeats"`
	Tickets    TicketCounts `json:"tickets"`
}

type TicketCounts struct {
	Total  int `json:"total"`
	Adult  int `json:"adult"`
	Child  int `json:"child"`
	Infant int `json:"infant"`
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	Code      *string   `json:"code,omitempty"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
