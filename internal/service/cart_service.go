package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/model"
	"storefront/internal/pricing"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	sessions   *cart.Sessions
	catalog    catalog.Gateway
	calculator *pricing.Calculator
	logger     zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(sessions *cart.Sessions, gateway catalog.Gateway, calculator *pricing.Calculator, logger zerolog.Logger) CartService {
	return &cartService{
		sessions:   sessions,
		catalog:    gateway,
		calculator: calculator,
		logger:     logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) View(ctx context.Context, sessionID string) (*model.CartView, error) {
	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sess.Store), nil
}

func (s *cartService) AddItem(ctx context.Context, sessionID, productID string) (*model.CartView, error) {
	id, err := strconv.ParseInt(productID, 10, 64)
	if err != nil || id <= 0 {
		s.logger.Warn().Str("product_id", productID).Msg("invalid product ID")
		return nil, model.ErrProductNotFound
	}

	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := catalog.FindProduct(ctx, s.catalog, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.logger.Debug().Str("product_id", productID).Msg("product not found")
			return nil, model.ErrProductNotFound
		}
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to resolve product")
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	sess.Store.AddItem(cart.ItemFromProduct(*product))

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("product_id", productID).
		Msg("item added to cart")

	return s.view(sess.Store), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*model.CartView, error) {
	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.Store.UpdateQuantity(productID, quantity) {
		return nil, model.ErrLineNotFound
	}
	return s.view(sess.Store), nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, productID string) (*model.CartView, error) {
	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Store.RemoveItem(productID)
	return s.view(sess.Store), nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) (*model.CartView, error) {
	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Store.Clear()
	s.logger.Debug().Str("session_id", sessionID).Msg("cart cleared")
	return s.view(sess.Store), nil
}

func (s *cartService) SetOpen(ctx context.Context, sessionID string, open bool) (*model.CartView, error) {
	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if open {
		sess.Store.OpenView()
	} else {
		sess.Store.CloseView()
	}
	return s.view(sess.Store), nil
}

func (s *cartService) acquire(ctx context.Context, sessionID string) (*cart.Session, error) {
	sess, err := s.sessions.Acquire(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return sess, nil
}

func (s *cartService) view(store *cart.Store) *model.CartView {
	lines := store.Lines()
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return &model.CartView{
		Lines:     lines,
		ItemCount: count,
		IsOpen:    store.IsOpen(),
		Totals:    s.calculator.Totals(lines),
	}
}
