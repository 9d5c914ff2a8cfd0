package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Products(t *testing.T) {
	ctx := context.Background()

	t.Run("all products sorted", func(t *testing.T) {
		gw := new(MockCatalogGateway)
		gw.On("ListProducts", mock.Anything).Return(testProducts, nil)
		svc := NewCatalogService(gw, zerolog.Nop())

		products, err := svc.Products(ctx, "", catalog.SortPriceHigh)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Rug", products[0].Name)
	})

	t.Run("filtered by subcategory", func(t *testing.T) {
		gw := new(MockCatalogGateway)
		gw.On("ListProductsBySubcategory", mock.Anything, "Lighting").Return(testProducts[:1], nil)
		svc := NewCatalogService(gw, zerolog.Nop())

		products, err := svc.Products(ctx, " Lighting ", catalog.SortDefault)
		require.NoError(t, err)
		assert.Len(t, products, 1)
		gw.AssertNotCalled(t, "ListProducts", mock.Anything)
	})

	t.Run("unknown subcategory is empty", func(t *testing.T) {
		gw := new(MockCatalogGateway)
		gw.On("ListProductsBySubcategory", mock.Anything, "Nope").
			Return(nil, fmt.Errorf("list products: %w", catalog.ErrNotFound))
		svc := NewCatalogService(gw, zerolog.Nop())

		products, err := svc.Products(ctx, "Nope", catalog.SortDefault)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("catalog unavailable", func(t *testing.T) {
		gw := new(MockCatalogGateway)
		gw.On("ListProducts", mock.Anything).Return(nil, &catalog.TransportError{Op: "list products", StatusCode: 502})
		svc := NewCatalogService(gw, zerolog.Nop())

		_, err := svc.Products(ctx, "", catalog.SortDefault)
		var te *catalog.TransportError
		assert.True(t, errors.As(err, &te))
	})
}

func TestCatalogService_SubcategoriesByCategory(t *testing.T) {
	gw := new(MockCatalogGateway)
	gw.On("ListSubcategoriesByCategory", mock.Anything, int64(9)).Return(nil, catalog.ErrNotFound)
	svc := NewCatalogService(gw, zerolog.Nop())

	subs, err := svc.SubcategoriesByCategory(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCatalogService_AdminValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(new(MockCatalogGateway), zerolog.Nop())

	tests := []struct {
		name     string
		call     func() error
		wantCode string
	}{
		{
			name: "category without name",
			call: func() error {
				_, err := svc.CreateCategory(ctx, model.CategoryInput{Name: "  "})
				return err
			},
			wantCode: model.ErrCodeMissingField,
		},
		{
			name: "subcategory without category",
			call: func() error {
				_, err := svc.CreateSubcategory(ctx, model.SubcategoryInput{Name: "Lamps"})
				return err
			},
			wantCode: model.ErrCodeMissingField,
		},
		{
			name: "product with negative price",
			call: func() error {
				_, err := svc.CreateProduct(ctx, model.ProductInput{Name: "Lamp", Price: decimal.NewFromInt(-1), SubcategoryID: 1}, nil)
				return err
			},
			wantCode: model.ErrCodeValidationFailed,
		},
		{
			name: "product without subcategory",
			call: func() error {
				_, err := svc.UpdateProduct(ctx, 3, model.ProductInput{Name: "Lamp", Price: decimal.NewFromInt(10)}, nil)
				return err
			},
			wantCode: model.ErrCodeMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var domainErr *model.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestCatalogService_AdminPassthrough(t *testing.T) {
	ctx := context.Background()
	gw := new(MockCatalogGateway)
	svc := NewCatalogService(gw, zerolog.Nop())

	in := model.ProductInput{Name: "Lamp", Price: decimal.NewFromInt(500), SubcategoryID: 2}
	image := &model.ImageUpload{Filename: "lamp.png", ContentType: "image/png"}

	gw.On("CreateProduct", mock.Anything, in, image).Return(&model.Product{ID: 11, Name: "Lamp"}, nil)
	gw.On("DeleteCategory", mock.Anything, int64(4)).Return(nil)

	created, err := svc.CreateProduct(ctx, in, image)
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)

	require.NoError(t, svc.DeleteCategory(ctx, 4))
	gw.AssertExpectations(t)
}
