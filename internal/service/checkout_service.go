package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/model"
	"storefront/internal/pricing"

	"github.com/rs/zerolog"
)

// CheckoutOptions configure the checkout service.
type CheckoutOptions struct {
	Currency       string
	PaymentTimeout time.Duration
}

type coordinatorEntry struct {
	store *cart.Store
	coord *checkout.Coordinator
}

// checkoutService implements CheckoutService. It keeps one coordinator per
// live cart session and drops it when the session is evicted.
type checkoutService struct {
	sessions   *cart.Sessions
	processor  checkout.Processor
	recorder   checkout.OrderRecorder
	calculator *pricing.Calculator
	opts       CheckoutOptions
	logger     zerolog.Logger

	mu           sync.Mutex
	coordinators map[string]coordinatorEntry
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	sessions *cart.Sessions,
	processor checkout.Processor,
	recorder checkout.OrderRecorder,
	calculator *pricing.Calculator,
	opts CheckoutOptions,
	logger zerolog.Logger,
) CheckoutService {
	s := &checkoutService{
		sessions:     sessions,
		processor:    processor,
		recorder:     recorder,
		calculator:   calculator,
		opts:         opts,
		logger:       logger.With().Str("service", "checkout").Logger(),
		coordinators: make(map[string]coordinatorEntry),
	}
	sessions.OnEvict(s.forget)
	return s
}

func (s *checkoutService) Summary(ctx context.Context, sessionID string) (*model.CheckoutSummary, error) {
	sess, err := s.sessions.Acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	coord := s.coordinator(sess)
	if coord.State().IsTerminal() && !sess.Store.IsEmpty() {
		coord.Reset()
	}

	lines := sess.Store.Lines()
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}

	return &model.CheckoutSummary{
		Lines:     lines,
		ItemCount: count,
		Totals:    s.calculator.Totals(lines),
		Currency:  s.opts.Currency,
		State:     coord.State().String(),
	}, nil
}

func (s *checkoutService) Submit(ctx context.Context, sessionID string, details model.BillingDetails, idempotencyKey string) (*checkout.Result, error) {
	sess, err := s.sessions.Acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	result, err := s.coordinator(sess).Submit(ctx, details, idempotencyKey)
	if err != nil {
		s.logger.Debug().Err(err).Str("session_id", sessionID).Msg("checkout rejected")
		return nil, err
	}
	return result, nil
}

// coordinator returns the session's coordinator, replacing one bound to a
// store that is no longer live.
func (s *checkoutService) coordinator(sess *cart.Session) *checkout.Coordinator {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.coordinators[sess.ID]; ok && e.store == sess.Store {
		return e.coord
	}

	coord := checkout.NewCoordinator(sess.Store, s.processor, s.recorder, s.calculator, checkout.Options{
		SessionID:      sess.ID,
		Currency:       s.opts.Currency,
		PaymentTimeout: s.opts.PaymentTimeout,
	}, s.logger)
	s.coordinators[sess.ID] = coordinatorEntry{store: sess.Store, coord: coord}
	return coord
}

func (s *checkoutService) forget(sessionID string) {
	s.mu.Lock()
	delete(s.coordinators, sessionID)
	s.mu.Unlock()
}
