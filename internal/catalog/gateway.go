// Package catalog talks to the remote catalog REST API.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"
)

// ErrNotFound is returned when the catalog answers 404.
var ErrNotFound = errors.New("catalog: not found")

// TransportError is a failed catalog call: a network error, a non-2xx status
// or an open circuit breaker. StatusCode is 0 when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Gateway is the storefront's view of the catalog API.
type Gateway interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListSubcategories(ctx context.Context) ([]model.Subcategory, error)
	ListSubcategoriesByCategory(ctx context.Context, categoryID int64) ([]model.Subcategory, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListProductsBySubcategory(ctx context.Context, name string) ([]model.Product, error)

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

// FindProduct looks a product up by id. The catalog has no single-product
// endpoint, so this scans the full listing.
func FindProduct(ctx context.Context, gw Gateway, id int64) (*model.Product, error) {
	products, err := gw.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrNotFound
}
