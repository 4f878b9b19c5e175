package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

var minorUnitsPerUnit = decimal.NewFromInt(100)

// freeReferencePrefix marks ledger rows for orders that cost nothing. Stripe
// rejects intents with a zero amount, so none is created for them.
const freeReferencePrefix = "free_"

// IntentCreator creates a Stripe payment intent. paymentintent.New is used
// unless another one is supplied with WithIntentCreator.
type IntentCreator func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)

type GatewayOption func(*StripeGateway)

func WithIntentCreator(newIntent IntentCreator) GatewayOption {
	return func(s *StripeGateway) {
		s.newIntent = newIntent
	}
}

type StripeGateway struct {
	currency    string
	paymentRepo domain.PaymentRepository
	newIntent   IntentCreator
}

func NewStripeGateway(currency string, paymentRepo domain.PaymentRepository, opts ...GatewayOption) *StripeGateway {
	gateway := &StripeGateway{
		currency:    currency,
		paymentRepo: paymentRepo,
		newIntent:   paymentintent.New,
	}

	for _, opt := range opts {
		opt(gateway)
	}

	return gateway
}

// MakePayment creates a payment intent for the amount and records it in the
// payment ledger. A zero amount is recorded as completed without an intent.
func (s *StripeGateway) MakePayment(ctx context.Context, accountID int64, amount int) error {
	total := decimal.NewFromInt(int64(amount))
	amountMinor := total.Mul(minorUnitsPerUnit).IntPart()

	if amountMinor == 0 {
		return s.record(ctx, &domain.Payment{
			AccountID: accountID,
			Reference: freeReferencePrefix + uuid.NewString(),
			Amount:    total,
			Currency:  s.currency,
			Status:    domain.PaymentStatusCompleted,
		})
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String(fmt.Sprintf("Cinema tickets for account %d", accountID)),
		Metadata: map[string]string{
			"account_id": strconv.FormatInt(accountID, 10),
		},
	}
	params.Context = ctx

	intent, err := s.newIntent(params)
	if err != nil {
		return fmt.Errorf("creating payment intent: %w", err)
	}

	return s.record(ctx, &domain.Payment{
		AccountID: accountID,
		Reference: intent.ID,
		Amount:    total,
		Currency:  s.currency,
		Status:    paymentStatus(intent.Status),
	})
}

func (s *StripeGateway) record(ctx context.Context, payment *domain.Payment) error {
	err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return fmt.Errorf("recording payment %s: %w", payment.Reference, err)
	}

	return nil
}

func paymentStatus(status stripe.PaymentIntentStatus) domain.PaymentStatus {
	if status == stripe.PaymentIntentStatusSucceeded {
		return domain.PaymentStatusCompleted
	}

	return domain.PaymentStatusPending
}
