package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const billingJSON = `{"cardHolder":"Ada Lovelace","cardNumber":"4242 4242 4242 4242","expiryDate":"12/30",` +
	`"cvv":"123","email":"ada@example.com","address":"1 Analytical Way","city":"London","zipCode":"N1","country":"UK"}`

func do(t *testing.T, h http.Handler, method, path, session, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(middleware.CartSessionHeader, session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStorefrontAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	catalogSrv := NewFakeCatalog(t)
	stack := NewStack(t, testDB.Pool, NewRedis(t), catalogSrv.URL)
	server := stack.Handler

	t.Run("browse sorted products", func(t *testing.T) {
		w := do(t, server, http.MethodGet, "/api/products?sort=price-high", "", "")
		require.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		require.Len(t, products, 3)
		assert.Equal(t, "Bookshelf", products[0].Name)
		assert.Equal(t, "Desk Lamp", products[2].Name)
	})

	t.Run("browse by subcategory", func(t *testing.T) {
		w := do(t, server, http.MethodGet, "/api/products?subcategory=Furniture", "", "")
		require.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		assert.Len(t, products, 2)

		w = do(t, server, http.MethodGet, "/api/products?subcategory=Nothing", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("first cart request mints a session", func(t *testing.T) {
		w := do(t, server, http.MethodGet, "/api/cart", "", "")
		require.Equal(t, http.StatusOK, w.Code)

		id := w.Header().Get(middleware.CartSessionHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		require.NotEmpty(t, w.Result().Cookies())
		assert.Equal(t, middleware.CartSessionCookie, w.Result().Cookies()[0].Name)
	})

	t.Run("cart to confirmed order", func(t *testing.T) {
		session := uuid.NewString()

		for i := 0; i < 2; i++ {
			w := do(t, server, http.MethodPost, "/api/cart/items", session, `{"productId":"1"}`)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}

		w := do(t, server, http.MethodPost, "/api/cart/items", session, `{"productId":"404"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(t, server, http.MethodGet, "/api/checkout", session, "")
		require.Equal(t, http.StatusOK, w.Code)
		var summary model.CheckoutSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 2, summary.ItemCount)
		assert.True(t, decimal.NewFromInt(1220).Equal(summary.Totals.GrandTotal))

		w = do(t, server, http.MethodPost, "/api/checkout", session, `{"cardNumber":"1234"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Card number must be 16 digits")

		w = do(t, server, http.MethodPost, "/api/checkout", session, billingJSON, "Idempotency-Key", "attempt-1")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result checkout.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, checkout.StateSucceeded, result.State)
		assert.Regexp(t, `^ORD-\d{6}$`, result.OrderNumber)

		// The cart and its slot are gone.
		assert.False(t, stack.Redis.Exists(cart.SlotKey(session)))
		w = do(t, server, http.MethodGet, "/api/cart", session, "")
		assert.Contains(t, w.Body.String(), `"itemCount":0`)

		// A retried submission replays the confirmation.
		w = do(t, server, http.MethodPost, "/api/checkout", session, billingJSON, "Idempotency-Key", "attempt-1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), result.OrderNumber)

		// Without the key an empty cart is rejected.
		w = do(t, server, http.MethodPost, "/api/checkout", session, billingJSON)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = do(t, server, http.MethodGet, "/api/orders/"+result.OrderID, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var order model.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.Equal(t, result.OrderNumber, order.Number)
		require.Len(t, order.Lines, 1)
		assert.Equal(t, 2, order.Lines[0].Quantity)
		assert.Equal(t, "Desk Lamp", order.Lines[0].Name)
		assert.True(t, decimal.NewFromInt(1220).Equal(order.Totals.GrandTotal))

		var count int
		require.NoError(t, testDB.Pool.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM orders WHERE number = $1", result.OrderNumber).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("declined card keeps the cart", func(t *testing.T) {
		session := uuid.NewString()

		w := do(t, server, http.MethodPost, "/api/cart/items", session, `{"productId":"2"}`)
		require.Equal(t, http.StatusOK, w.Code)

		declined := strings.Replace(billingJSON, "4242 4242 4242 4242", checkout.DeclinedTestCard, 1)
		w = do(t, server, http.MethodPost, "/api/checkout", session, declined)
		require.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Contains(t, w.Body.String(), "Payment declined")
		assert.NotContains(t, w.Body.String(), checkout.DeclinedTestCard)

		w = do(t, server, http.MethodGet, "/api/cart", session, "")
		assert.Contains(t, w.Body.String(), `"itemCount":1`)
	})

	t.Run("admin routes need identity", func(t *testing.T) {
		w := do(t, server, http.MethodPost, "/api/admin/categories", "", `{"name":"Garden"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCartPersistence_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	catalogSrv := NewFakeCatalog(t)
	mr := NewRedis(t)
	session := uuid.NewString()

	first := NewStack(t, testDB.Pool, mr, catalogSrv.URL)
	w := do(t, first.Handler, http.MethodPost, "/api/cart/items", session, `{"productId":"3"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, first.Handler, http.MethodPut, "/api/cart/items/3", session, `{"quantity":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	first.Sessions.Close()

	// A fresh process rehydrates the cart from the slot.
	second := NewStack(t, testDB.Pool, mr, catalogSrv.URL)
	w = do(t, second.Handler, http.MethodGet, "/api/cart", session, "")
	require.Equal(t, http.StatusOK, w.Code)

	var view model.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 4, view.ItemCount)
	assert.True(t, decimal.NewFromInt(3200).Equal(view.Lines[0].UnitPrice))

	// A corrupt slot yields an empty cart, not an error.
	require.NoError(t, mr.Set(cart.SlotKey(session), "{not json"))
	second.Sessions.Close()

	third := NewStack(t, testDB.Pool, mr, catalogSrv.URL)
	w = do(t, third.Handler, http.MethodGet, "/api/cart", session, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"itemCount":0`)
}
