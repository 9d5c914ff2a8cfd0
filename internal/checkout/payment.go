package checkout

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DeclinedTestCard is always declined by SimulatedProcessor.
const DeclinedTestCard = "4000000000000002"

// PaymentRequest is what a Processor charges.
type PaymentRequest struct {
	Amount   decimal.Decimal
	Currency string
	OrderRef string
	Details  model.BillingDetails
}

// PaymentResult is the processor's verdict. An error from Submit means no
// verdict was reached.
type PaymentResult struct {
	Approved      bool
	Reference     string
	DeclineReason string
}

// Processor charges a payment.
type Processor interface {
	Submit(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// SimulatedProcessor stands in for a payment provider: it waits, then
// approves every card except DeclinedTestCard.
type SimulatedProcessor struct {
	delay  time.Duration
	logger zerolog.Logger
}

// NewSimulatedProcessor creates a processor that answers after delay.
func NewSimulatedProcessor(delay time.Duration, logger zerolog.Logger) *SimulatedProcessor {
	return &SimulatedProcessor{
		delay:  delay,
		logger: logger.With().Str("component", "simulated-payment").Logger(),
	}
}

// Submit implements Processor.
func (p *SimulatedProcessor) Submit(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	if NormaliseCardNumber(req.Details.CardNumber) == DeclinedTestCard {
		p.logger.Info().Str("order_ref", req.OrderRef).Msg("payment declined")
		return &PaymentResult{Approved: false, DeclineReason: "card declined"}, nil
	}

	ref := "PAY-" + uuid.NewString()
	p.logger.Info().
		Str("order_ref", req.OrderRef).
		Str("payment_ref", ref).
		Str("amount", req.Amount.StringFixed(2)).
		Str("currency", req.Currency).
		Msg("payment approved")

	return &PaymentResult{Approved: true, Reference: ref}, nil
}
