package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) result(args mock.Arguments) (*model.CartView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) View(ctx context.Context, sessionID string) (*model.CartView, error) {
	return m.result(m.Called(ctx, sessionID))
}

func (m *MockCartService) AddItem(ctx context.Context, sessionID, productID string) (*model.CartView, error) {
	return m.result(m.Called(ctx, sessionID, productID))
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*model.CartView, error) {
	return m.result(m.Called(ctx, sessionID, productID, quantity))
}

func (m *MockCartService) RemoveItem(ctx context.Context, sessionID, productID string) (*model.CartView, error) {
	return m.result(m.Called(ctx, sessionID, productID))
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) (*model.CartView, error) {
	return m.result(m.Called(ctx, sessionID))
}

func (m *MockCartService) SetOpen(ctx context.Context, sessionID string, open bool) (*model.CartView, error) {
	return m.result(m.Called(ctx, sessionID, open))
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Summary(ctx context.Context, sessionID string) (*model.CheckoutSummary, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSummary), args.Error(1)
}

func (m *MockCheckoutService) Submit(ctx context.Context, sessionID string, details model.BillingDetails, idempotencyKey string) (*checkout.Result, error) {
	args := m.Called(ctx, sessionID, details, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Result), args.Error(1)
}

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogService) Subcategories(ctx context.Context) ([]model.Subcategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subcategory), args.Error(1)
}

func (m *MockCatalogService) SubcategoriesByCategory(ctx context.Context, categoryID int64) ([]model.Subcategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subcategory), args.Error(1)
}

func (m *MockCatalogService) Products(ctx context.Context, subcategory string, order catalog.SortOrder) ([]model.Product, error) {
	args := m.Called(ctx, subcategory, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, in model.CategoryInput) (*model.Category, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, id int64, in model.CategoryInput) (*model.Category, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) CreateSubcategory(ctx context.Context, in model.SubcategoryInput) (*model.Subcategory, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subcategory), args.Error(1)
}

func (m *MockCatalogService) UpdateSubcategory(ctx context.Context, id int64, in model.SubcategoryInput) (*model.Subcategory, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subcategory), args.Error(1)
}

func (m *MockCatalogService) DeleteSubcategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, in model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id int64, in model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, id, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

const testSession = "6f1c2b9e-8d3a-4c55-9e0f-1a2b3c4d5e6f"

// serve routes one request through a chi router so URL params and the cart
// session are bound as in production.
func serve(method, pattern, target, body string, h http.HandlerFunc, headers ...string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(middleware.CartSession(zerolog.Nop()))
	r.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.CartSessionHeader, testSession)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
