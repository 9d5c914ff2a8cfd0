// Package pricing derives order totals from cart lines.
package pricing

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Policy holds the fixed pricing values applied to every order.
type Policy struct {
	// ShippingCost is charged once per non-empty order.
	ShippingCost decimal.Decimal

	// TaxRate applies to the subtotal only; shipping is not taxed.
	TaxRate decimal.Decimal
}

// DefaultPolicy returns the storefront's standard policy: 150 shipping, 7% tax.
func DefaultPolicy() Policy {
	return Policy{
		ShippingCost: decimal.NewFromInt(150),
		TaxRate:      decimal.RequireFromString("0.07"),
	}
}

// Calculator is a pure function from cart lines to totals.
type Calculator struct {
	policy Policy
}

// NewCalculator creates a calculator for the given policy.
func NewCalculator(policy Policy) *Calculator {
	return &Calculator{policy: policy}
}

// Policy returns the policy the calculator applies.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []model.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Totals computes subtotal, shipping, tax and grand total. An empty cart
// yields zero for every amount: shipping and tax are only charged when there
// is something to ship.
func (c *Calculator) Totals(lines []model.CartLine) model.OrderTotals {
	if len(lines) == 0 {
		return model.OrderTotals{
			Subtotal:     decimal.Zero,
			ShippingCost: decimal.Zero,
			TaxAmount:    decimal.Zero,
			GrandTotal:   decimal.Zero,
		}
	}

	subtotal := Subtotal(lines)
	tax := subtotal.Mul(c.policy.TaxRate).Round(2)
	shipping := c.policy.ShippingCost.Round(2)

	return model.OrderTotals{
		Subtotal:     subtotal.Round(2),
		ShippingCost: shipping,
		TaxAmount:    tax,
		GrandTotal:   subtotal.Add(shipping).Add(tax).Round(2),
	}
}
