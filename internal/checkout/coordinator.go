package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SuccessPath is where the client goes after a confirmed payment.
const SuccessPath = "/checkout/success"

// maxReplayKeys bounds how many successful idempotency keys a coordinator
// remembers. The oldest key is forgotten first.
const maxReplayKeys = 8

// OrderRecorder writes confirmed orders to the ledger.
type OrderRecorder interface {
	Create(ctx context.Context, order *model.Order) error
}

// Result is the outcome of one Submit.
type Result struct {
	State       State                 `json:"state"`
	OrderID     string                `json:"orderId,omitempty"`
	OrderNumber string                `json:"orderNumber,omitempty"`
	Totals      model.OrderTotals     `json:"totals"`
	Next        string                `json:"next,omitempty"`
	Message     string                `json:"message,omitempty"`
	FieldErrors model.FieldErrors     `json:"fields,omitempty"`
	Details     *model.BillingDetails `json:"details,omitempty"`
}

// Options configure a Coordinator.
type Options struct {
	SessionID      string
	Currency       string
	PaymentTimeout time.Duration
}

// Coordinator runs checkout for one cart session. Only one payment can be in
// flight per coordinator.
type Coordinator struct {
	store      *cart.Store
	processor  Processor
	recorder   OrderRecorder
	calculator *pricing.Calculator
	opts       Options
	logger     zerolog.Logger

	mu        sync.Mutex
	state     State
	completed map[string]*Result
	keys      []string
}

// NewCoordinator creates a coordinator in the IDLE state.
func NewCoordinator(store *cart.Store, processor Processor, recorder OrderRecorder, calculator *pricing.Calculator, opts Options, logger zerolog.Logger) *Coordinator {
	if opts.PaymentTimeout <= 0 {
		opts.PaymentTimeout = 10 * time.Second
	}
	return &Coordinator{
		store:      store,
		processor:  processor,
		recorder:   recorder,
		calculator: calculator,
		opts:       opts,
		logger:     logger.With().Str("component", "checkout").Str("session_id", opts.SessionID).Logger(),
		state:      StateIdle,
		completed:  make(map[string]*Result),
	}
}

// State reports the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset returns a coordinator that is not processing to IDLE.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateProcessing {
		c.state = StateIdle
	}
}

// Submit validates details and charges the cart. Guard failures come back as
// errors (model.ErrEmptyCart, model.ErrCheckoutInProgress); validation and
// payment outcomes come back in the Result.
//
// A non-empty idempotencyKey that already produced a successful order returns
// that order's Result again without charging.
func (c *Coordinator) Submit(ctx context.Context, details model.BillingDetails, idempotencyKey string) (*Result, error) {
	c.mu.Lock()
	if idempotencyKey != "" {
		if prev, ok := c.completed[idempotencyKey]; ok {
			c.mu.Unlock()
			c.logger.Info().Str("order_number", prev.OrderNumber).Msg("replaying completed checkout")
			return prev, nil
		}
	}
	if c.state == StateProcessing {
		c.mu.Unlock()
		return nil, model.ErrCheckoutInProgress
	}
	if c.store.IsEmpty() {
		c.mu.Unlock()
		return nil, model.ErrEmptyCart
	}

	c.state = StateValidating
	if fieldErrs := Validate(details); fieldErrs != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.logger.Debug().Int("fields", len(fieldErrs)).Msg("checkout validation failed")
		redacted := Redact(details)
		return &Result{
			State:       StateIdle,
			Totals:      c.calculator.Totals(c.store.Lines()),
			Message:     "Please correct the highlighted fields",
			FieldErrors: fieldErrs,
			Details:     &redacted,
		}, nil
	}

	lines := c.store.Lines()
	totals := c.calculator.Totals(lines)
	c.state = StateProcessing
	c.mu.Unlock()

	orderNumber := newOrderNumber()
	details.CardNumber = NormaliseCardNumber(details.CardNumber)

	payCtx, cancel := context.WithTimeout(ctx, c.opts.PaymentTimeout)
	payment, err := c.processor.Submit(payCtx, PaymentRequest{
		Amount:   totals.GrandTotal,
		Currency: c.opts.Currency,
		OrderRef: orderNumber,
		Details:  details,
	})
	cancel()
	if err == nil && payment == nil {
		err = errors.New("payment processor returned no result")
	}

	if err != nil || !payment.Approved {
		return c.fail(details, totals, orderNumber, payment, err), nil
	}

	order := &model.Order{
		ID:         uuid.New(),
		Number:     orderNumber,
		SessionID:  c.opts.SessionID,
		Email:      details.Email,
		Currency:   c.opts.Currency,
		Totals:     totals,
		PaymentRef: payment.Reference,
		Lines:      orderLines(lines),
		CreatedAt:  time.Now().UTC(),
	}
	if c.recorder != nil {
		if err := c.recorder.Create(context.WithoutCancel(ctx), order); err != nil {
			c.logger.Error().
				Err(err).
				Str("order_number", orderNumber).
				Str("payment_ref", payment.Reference).
				Msg("payment captured but order could not be recorded")
		}
	}

	c.store.RemoveLines(lines)

	result := &Result{
		State:       StateSucceeded,
		OrderID:     order.ID.String(),
		OrderNumber: orderNumber,
		Totals:      totals,
		Next:        SuccessPath,
	}

	c.mu.Lock()
	c.state = StateSucceeded
	c.remember(idempotencyKey, result)
	c.mu.Unlock()

	c.logger.Info().
		Str("order_number", orderNumber).
		Str("grand_total", totals.GrandTotal.StringFixed(2)).
		Msg("checkout succeeded")

	return result, nil
}

func (c *Coordinator) fail(details model.BillingDetails, totals model.OrderTotals, orderNumber string, payment *PaymentResult, err error) *Result {
	message := "Payment could not be processed. Please try again."
	event := c.logger.Warn().Str("order_ref", orderNumber)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		message = "Payment timed out. Please try again."
		event = event.Err(err)
	case err != nil:
		event = event.Err(err)
	case payment != nil && payment.DeclineReason != "":
		message = fmt.Sprintf("Payment declined: %s", payment.DeclineReason)
		event = event.Str("decline_reason", payment.DeclineReason)
	}
	event.Msg("checkout payment failed")

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	redacted := Redact(details)
	return &Result{
		State:   StateFailed,
		Totals:  totals,
		Message: message,
		Details: &redacted,
	}
}

// remember must be called with mu held.
func (c *Coordinator) remember(key string, result *Result) {
	if key == "" {
		return
	}
	if _, ok := c.completed[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.completed[key] = result
	for len(c.keys) > maxReplayKeys {
		delete(c.completed, c.keys[0])
		c.keys = c.keys[1:]
	}
}

func orderLines(lines []model.CartLine) []model.OrderLine {
	out := make([]model.OrderLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, model.OrderLine{
			ID:        uuid.New(),
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return out
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD-%06d", 100000+rand.IntN(900000))
}
