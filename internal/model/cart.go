package model

import "github.com/shopspring/decimal"

// CartLine is one distinct product held in a cart.
type CartLine struct {
	ProductID string          `json:"productId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	ImageRef  string          `json:"imageRef"`
}

// CartView is the read model returned to clients.
type CartView struct {
	Lines     []CartLine  `json:"lines"`
	ItemCount int         `json:"itemCount"`
	IsOpen    bool        `json:"isOpen"`
	Totals    OrderTotals `json:"totals"`
}

// AddItemRequest is the payload for POST /api/cart/items.
type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// UpdateQuantityRequest is the payload for PUT /api/cart/items/{productId}.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}
