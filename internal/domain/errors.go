package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPurchase = errors.New("invalid purchase")
	ErrInvalidRecord   = errors.New("record violates a constraint")
)

type RejectionReason int

const (
	NoTicketsRequested RejectionReason = iota + 1
	NullTicketRequest
	InvalidAccountID
	NullTicketType
	UnknownTicketType
	MaxTicketsExceeded
	AdultRequired
	InfantWithoutAdult
)

var reasonCodes = map[RejectionReason]string{
	NoTicketsRequested: "NO_TICKETS_REQUESTED",
	NullTicketRequest:  "NULL_TICKET_REQUEST",
	InvalidAccountID:   "INVALID_ACCOUNT_ID",
	NullTicketType:     "NULL_TICKET_TYPE",
	UnknownTicketType:  "UNKNOWN_TICKET_TYPE",
	MaxTicketsExceeded: "MAX_TICKETS_EXCEEDED",
	AdultRequired:      "ADULT_REQUIRED",
	InfantWithoutAdult: "INFANT_WITHOUT_ADULT",
}

// Code is the stable machine-readable form of the reason.
func (r RejectionReason) Code() string {
	if code, ok := reasonCodes[r]; ok {
		return code
	}

	return "UNKNOWN_REASON"
}

func (r RejectionReason) String() string {
	switch r {
	case NoTicketsRequested:
		return "at least one ticket must be requested for purchase"
	case NullTicketRequest:
		return "ticket request cannot be null"
	case InvalidAccountID:
		return "invalid account ID"
	case NullTicketType:
		return "ticket type cannot be null"
	case UnknownTicketType:
		return "unknown ticket type"
	case MaxTicketsExceeded:
		return fmt.Sprintf("maximum number of tickets exceeded (%d)", MaxTicketsPerPurchase)
	case AdultRequired:
		return "child and infant tickets must be purchased with an adult ticket"
	case InfantWithoutAdult:
		return "each infant must be accompanied by an adult"
	default:
		return "invalid purchase"
	}
}

type InvalidPurchaseError struct {
	Reason RejectionReason
	// Category is only set for UnknownTicketType.
	Category TicketCategory
}

func NewInvalidPurchaseError(reason RejectionReason) *InvalidPurchaseError {
	return &InvalidPurchaseError{Reason: reason}
}

func (e *InvalidPurchaseError) Error() string {
	if e.Reason == UnknownTicketType {
		return fmt.Sprintf("%s: %s", e.Reason, e.Category)
	}

	return e.Reason.String()
}

func (e *InvalidPurchaseError) Is(target error) bool {
	return target == ErrInvalidPurchase
}
