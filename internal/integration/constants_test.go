package integration_test

const (
	TestAccountId = 42
	TestCurrency  = "gbp"

	SeatReservationStream = "seat_reservations"
)
