package service

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/model"

	"github.com/google/uuid"
)

// CartService defines the operations on a session's cart.
type CartService interface {
	// View returns the cart with derived totals.
	View(ctx context.Context, sessionID string) (*model.CartView, error)

	// AddItem resolves productID against the catalog and adds one unit.
	AddItem(ctx context.Context, sessionID, productID string) (*model.CartView, error)

	// UpdateQuantity sets a line's quantity; a quantity <= 0 removes it.
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*model.CartView, error)

	// RemoveItem deletes a line. Removing an absent product is a no-op.
	RemoveItem(ctx context.Context, sessionID, productID string) (*model.CartView, error)

	// Clear empties the cart.
	Clear(ctx context.Context, sessionID string) (*model.CartView, error)

	// SetOpen shows or hides the cart overlay.
	SetOpen(ctx context.Context, sessionID string, open bool) (*model.CartView, error)
}

// CatalogService defines browsing and admin operations on the remote catalog.
type CatalogService interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Subcategories(ctx context.Context) ([]model.Subcategory, error)
	SubcategoriesByCategory(ctx context.Context, categoryID int64) ([]model.Subcategory, error)

	// Products lists products, optionally filtered by subcategory name, in
	// the given order.
	Products(ctx context.Context, subcategory string, order catalog.SortOrder) ([]model.Product, error)

	CreateCategory(ctx context.Context, in model.CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateSubcategory(ctx context.Context, in model.SubcategoryInput) (*model.Subcategory, error)
	UpdateSubcategory(ctx context.Context, id int64, in model.SubcategoryInput) (*model.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, in model.ProductInput, image *model.ImageUpload) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, in model.ProductInput, image *model.ImageUpload) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// CheckoutService defines the checkout flow for a session.
type CheckoutService interface {
	// Summary returns the lines, totals and checkout state.
	Summary(ctx context.Context, sessionID string) (*model.CheckoutSummary, error)

	// Submit pays for the session's cart.
	Submit(ctx context.Context, sessionID string, details model.BillingDetails, idempotencyKey string) (*checkout.Result, error)
}

// OrderService defines order ledger lookups.
type OrderService interface {
	// GetByID retrieves a confirmed order.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

// IdentityService authenticates bearer tokens.
type IdentityService interface {
	// Authenticate returns the token's user with a server-resolved role.
	Authenticate(ctx context.Context, bearerToken string) (*model.User, error)
}
