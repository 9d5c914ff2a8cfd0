// Package repository persists confirmed orders in PostgreSQL.
package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// OrderRepository defines the order ledger operations.
type OrderRepository interface {
	// Create inserts the order and its lines in one transaction.
	Create(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order with its lines. It returns nil, nil when
	// the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}
