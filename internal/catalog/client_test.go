package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Options{
		BaseURL:         server.URL + "/",
		Timeout:         time.Second,
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	}, zerolog.Nop())
}

func TestClient_ListProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Lamp","description":"Warm","price":499.5,"imageUrl":"https://img/1.png","subcategoryId":3}]`))
	})

	products, err := client.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("499.5")))
	assert.Equal(t, "https://img/1.png", products[0].ImageURL)
}

func TestClient_ListProductsBySubcategoryEscapesName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/subcategory", r.URL.Path)
		assert.Equal(t, "Desk & Table", r.URL.Query().Get("name"))
		w.Write([]byte(`null`))
	})

	products, err := client.ListProductsBySubcategory(context.Background(), "Desk & Table")

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestClient_ListSubcategoriesByCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subcategories/category/4", r.URL.Path)
		w.Write([]byte(`[{"id":9,"name":"Lamps","category":{"id":4,"name":"Home"}}]`))
	})

	subs, err := client.ListSubcategoriesByCategory(context.Background(), 4)

	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Home", subs[0].Category.Name)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		expectNotFound bool
		expectedStatus int
	}{
		{name: "Not found", status: http.StatusNotFound, expectNotFound: true},
		{name: "Server error", status: http.StatusInternalServerError, body: "boom", expectedStatus: 500},
		{name: "Bad request", status: http.StatusBadRequest, body: "bad", expectedStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.ListCategories(context.Background())

			require.Error(t, err)
			if tt.expectNotFound {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.expectedStatus, te.StatusCode)
			assert.Equal(t, "list categories", te.Op)
		})
	}
}

func TestClient_InvalidBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	})

	_, err := client.ListCategories(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Error(), "invalid response body")
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 2; i++ {
		_, err := client.ListProducts(context.Background())
		require.Error(t, err)
	}

	_, err := client.ListProducts(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.StatusCode)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 5; i++ {
		err := client.DeleteCategory(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int32(5), calls.Load())
}

func TestClient_CreateCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/categories", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in model.CategoryInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Home", in.Name)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":4,"name":"Home"}`))
	})

	cat, err := client.CreateCategory(context.Background(), model.CategoryInput{Name: "Home"})

	require.NoError(t, err)
	assert.Equal(t, int64(4), cat.ID)
}

func TestClient_UpdateProductMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/12", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var in model.ProductInput
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("product")), &in))
		assert.Equal(t, "Lamp", in.Name)
		assert.Equal(t, int64(3), in.SubcategoryID)

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "lamp.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		assert.Equal(t, "PNGDATA", string(data))

		w.Write([]byte(`{"id":12,"name":"Lamp","price":"10"}`))
	})

	product, err := client.UpdateProduct(context.Background(), 12, model.ProductInput{
		Name:          "Lamp",
		Price:         decimal.NewFromInt(10),
		SubcategoryID: 3,
	}, &model.ImageUpload{
		Filename:    "lamp.png",
		ContentType: "image/png",
		Body:        strings.NewReader("PNGDATA"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(12), product.ID)
}

func TestClient_CreateProductWithoutImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.NotEmpty(t, r.FormValue("product"))
		_, _, err := r.FormFile("image")
		assert.ErrorIs(t, err, http.ErrMissingFile)
		w.Write([]byte(`{"id":13,"name":"Desk"}`))
	})

	product, err := client.CreateProduct(context.Background(), model.ProductInput{Name: "Desk"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Desk", product.Name)
}

func TestClient_NetworkFailure(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}, zerolog.Nop())

	_, err := client.ListCategories(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.StatusCode)
	assert.False(t, errors.Is(err, ErrNotFound))
}
