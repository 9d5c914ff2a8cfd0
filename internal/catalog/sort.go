package catalog

import (
	"slices"
	"strings"

	"storefront/internal/model"
)

// SortOrder is a product listing order.
type SortOrder string

const (
	SortDefault   SortOrder = ""
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
)

// ParseSortOrder maps a query value to a SortOrder. Unknown values keep the
// catalog's own order.
func ParseSortOrder(v string) SortOrder {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(v))); o {
	case SortPriceLow, SortPriceHigh, SortNameAsc, SortNameDesc:
		return o
	default:
		return SortDefault
	}
}

// SortProducts returns a sorted copy of products. Ties keep catalog order.
func SortProducts(products []model.Product, order SortOrder) []model.Product {
	out := slices.Clone(products)

	switch order {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b model.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b model.Product) int { return b.Price.Cmp(a.Price) })
	case SortNameAsc:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortNameDesc:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return strings.Compare(strings.ToLower(b.Name), strings.ToLower(a.Name))
		})
	}

	return out
}
