package domain

const MaxTicketsPerPurchase = 25

type TicketCategory string

const (
	CategoryAdult  TicketCategory = "ADULT"
	CategoryChild  TicketCategory = "CHILD"
	CategoryInfant TicketCategory = "INFANT"
)

// Price returns the unit price of the category. The second value is false for
// an absent or unrecognised category.
func (c TicketCategory) Price() (int, bool) {
	switch c {
	case CategoryAdult:
		return 25, true
	case CategoryChild:
		return 15, true
	case CategoryInfant:
		return 0, true
	default:
		return 0, false
	}
}

// Infants sit on an adult's lap.
func (c TicketCategory) OccupiesSeat() bool {
	return c == CategoryAdult || c == CategoryChild
}

func (c TicketCategory) IsValid() bool {
	_, ok := c.Price()
	return ok
}

type TicketRequest struct {
	Category TicketCategory
	Quantity int
}

func NewTicketRequest(category TicketCategory, quantity int) *TicketRequest {
	return &TicketRequest{
		Category: category,
		Quantity: quantity,
	}
}

type PurchaseOrder struct {
	AccountID *int64
	Requests  []*TicketRequest
}

type TicketQuantities struct {
	TotalTickets int
	Adult        int
	Child        int
	Infant       int
}

func (q TicketQuantities) TotalCost() int {
	var cost int

	for category, count := range q.byCategory() {
		price, _ := category.Price()
		cost += count * price
	}

	return cost
}

func (q TicketQuantities) TotalSeats() int {
	var seats int

	for category, count := range q.byCategory() {
		if category.OccupiesSeat() {
			seats += count
		}
	}

	return seats
}

func (q TicketQuantities) byCategory() map[TicketCategory]int {
	return map[TicketCategory]int{
		CategoryAdult:  q.Adult,
		CategoryChild:  q.Child,
		CategoryInfant: q.Infant,
	}
}
