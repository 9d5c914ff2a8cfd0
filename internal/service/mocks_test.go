package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogGateway is a mock implementation of catalog.Gateway.
type MockCatalogGateway struct {
	mock.Mock
}

func (m *MockCatalogGateway) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogGateway) ListSubcategories(ctx context.Context) ([]model.Subcategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subcategory), args.Error(1)
}

func (m *MockCatalogGateway) ListSubcategoriesByCategory(ctx context.Context, categoryID int64) ([]model.Subcategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subcategory), args.Error(1)
}

func (m *MockCatalogGateway) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogGateway) ListProductsBySubcategory(ctx context.Context, name string) ([]model.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogGateway) CreateCategory(ctx context.Context, in model.CategoryInput) (*model.Category, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogGateway) UpdateCategory(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogGateway) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogGateway) CreateSubcategory(ctx context.Context, in model.SubcategoryInput) (*model.Subcategory, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subcategory), args.Error(1)
}

func (m *MockCatalogGateway) UpdateSubcategory(ctx context.Context, id int64, in model.SubcategoryInput) (*model.Subcategory, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subcategory), args.Error(1)
}

func (m *MockCatalogGateway) DeleteSubcategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogGateway) CreateProduct(ctx context.Context, in model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogGateway) UpdateProduct(ctx context.Context, id int64, in model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, id, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogGateway) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockIdentityGateway is a mock implementation of identity.Gateway.
type MockIdentityGateway struct {
	mock.Mock
}

func (m *MockIdentityGateway) CurrentUser(ctx context.Context, bearerToken string) (*model.User, error) {
	args := m.Called(ctx, bearerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// newTestSessions returns live sessions persisted to a temporary directory.
func newTestSessions(t *testing.T) (*cart.Sessions, *cart.FileSlot) {
	t.Helper()

	slot, err := cart.NewFileSlot(t.TempDir())
	require.NoError(t, err)

	sessions := cart.NewSessions(cart.NewPersister(slot, time.Second, zerolog.Nop()), time.Hour, zerolog.Nop())
	t.Cleanup(sessions.Close)
	return sessions, slot
}

func testCalculator() *pricing.Calculator {
	return pricing.NewCalculator(pricing.DefaultPolicy())
}
