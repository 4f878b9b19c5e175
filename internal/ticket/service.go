package ticket

import (
	"context"
	"math"

	"github.com/metinatakli/cinema-tickets/internal/domain"
)

// PurchaseValidator validates and prices ticket purchase orders and hands
// successful ones to the payment and seat reservation collaborators.
type PurchaseValidator struct {
	payments     domain.PaymentCollaborator
	reservations domain.ReservationCollaborator
}

func NewPurchaseValidator(
	payments domain.PaymentCollaborator,
	reservations domain.ReservationCollaborator) *PurchaseValidator {

	return &PurchaseValidator{
		payments:     payments,
		reservations: reservations,
	}
}

// Purchase takes payment and then reserves seats for a valid order. Errors
// returned by the collaborators are passed back as they are, and a failed
// reservation does not undo the payment.
func (v *PurchaseValidator) Purchase(ctx context.Context, order domain.PurchaseOrder) (domain.TicketQuantities, error) {
	quantities, err := v.validate(order)
	if err != nil {
		return domain.TicketQuantities{}, err
	}

	accountID := *order.AccountID

	err = v.payments.MakePayment(ctx, accountID, quantities.TotalCost())
	if err != nil {
		return domain.TicketQuantities{}, err
	}

	err = v.reservations.ReserveSeat(ctx, accountID, quantities.TotalSeats())
	if err != nil {
		return domain.TicketQuantities{}, err
	}

	return quantities, nil
}

// Quote validates and prices an order without paying or reserving.
func (v *PurchaseValidator) Quote(order domain.PurchaseOrder) (domain.TicketQuantities, error) {
	return v.validate(order)
}

func (v *PurchaseValidator) validate(order domain.PurchaseOrder) (domain.TicketQuantities, error) {
	if len(order.Requests) == 0 {
		return domain.TicketQuantities{}, domain.NewInvalidPurchaseError(domain.NoTicketsRequested)
	}

	for _, request := range order.Requests {
		if request == nil {
			return domain.TicketQuantities{}, domain.NewInvalidPurchaseError(domain.NullTicketRequest)
		}
	}

	if order.AccountID == nil || *order.AccountID <= 0 {
		return domain.TicketQuantities{}, domain.NewInvalidPurchaseError(domain.InvalidAccountID)
	}

	quantities, err := aggregate(order.Requests)
	if err != nil {
		return domain.TicketQuantities{}, err
	}

	if (quantities.Child > 0 || quantities.Infant > 0) && quantities.Adult == 0 {
		return domain.TicketQuantities{}, domain.NewInvalidPurchaseError(domain.AdultRequired)
	}

	if quantities.Infant > quantities.Adult {
		return domain.TicketQuantities{}, domain.NewInvalidPurchaseError(domain.InfantWithoutAdult)
	}

	return quantities, nil
}

// aggregate sums the quantities per category. Type errors are reported before
// the ticket limit, and once a line or the running total passes the limit the
// remaining lines are only checked for their type.
func aggregate(requests []*domain.TicketRequest) (domain.TicketQuantities, error) {
	var (
		quantities domain.TicketQuantities
		exceeded   bool
	)

	for _, request := range requests {
		if request.Category == "" {
			return domain.TicketQuantities{}, domain.NewInvalidPurchaseError(domain.NullTicketType)
		}

		if !request.Category.IsValid() {
			return domain.TicketQuantities{}, &domain.InvalidPurchaseError{
				Reason:   domain.UnknownTicketType,
				Category: request.Category,
			}
		}

		if exceeded {
			continue
		}

		total, ok := addTickets(quantities.TotalTickets, request.Quantity)
		if !ok {
			exceeded = true
			continue
		}

		quantities.TotalTickets = total

		switch request.Category {
		case domain.CategoryAdult:
			quantities.Adult += request.Quantity
		case domain.CategoryChild:
			quantities.Child += request.Quantity
		case domain.CategoryInfant:
			quantities.Infant += request.Quantity
		}
	}

	if exceeded {
		return domain.TicketQuantities{}, domain.NewInvalidPurchaseError(domain.MaxTicketsExceeded)
	}

	return quantities, nil
}

// addTickets reports false when n alone or the new total passes the purchase
// limit, or when adding a negative n would wrap below math.MinInt.
func addTickets(total, n int) (int, bool) {
	if n > domain.MaxTicketsPerPurchase {
		return 0, false
	}

	if n < 0 && total < math.MinInt-n {
		return 0, false
	}

	sum := total + n

	return sum, sum <= domain.MaxTicketsPerPurchase
}
