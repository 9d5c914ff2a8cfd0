package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a confirmed checkout recorded in the order ledger.
type Order struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	Number     string      `json:"number" db:"number"`
	SessionID  string      `json:"-" db:"session_id"`
	Email      string      `json:"email" db:"email"`
	Currency   string      `json:"currency" db:"currency"`
	Totals     OrderTotals `json:"totals"`
	PaymentRef string      `json:"paymentRef" db:"payment_ref"`
	Lines      []OrderLine `json:"lines"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
}

// OrderLine is a cart line frozen at checkout time.
type OrderLine struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity  int             `json:"quantity" db:"quantity"`
}

// OrderTotals is derived from cart lines on every read and never stored on the cart.
type OrderTotals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
}

// BillingDetails is the checkout form. It is transient: never persisted or logged.
type BillingDetails struct {
	CardHolder string `json:"cardHolder"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	ZipCode    string `json:"zipCode"`
	Country    string `json:"country"`
}

// FieldErrors maps a BillingDetails JSON field name to a user-facing message.
type FieldErrors map[string]string

// CheckoutSummary is what the checkout page shows before payment.
type CheckoutSummary struct {
	Lines     []CartLine  `json:"lines"`
	ItemCount int         `json:"itemCount"`
	Totals    OrderTotals `json:"totals"`
	Currency  string      `json:"currency"`
	State     string      `json:"state"`
}
