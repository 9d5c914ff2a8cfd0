package model

import (
	"io"

	"github.com/shopspring/decimal"
)

// Category is a top-level catalogue grouping served by the remote catalog API.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Subcategory belongs to exactly one category.
type Subcategory struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CategoryID int64     `json:"categoryId,omitempty"`
	Category   *Category `json:"category,omitempty"`
}

// Product is a sellable catalogue item.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"imageUrl"`
	SubcategoryID int64           `json:"subcategoryId,omitempty"`
	Subcategory   *Subcategory    `json:"subcategory,omitempty"`
}

// CategoryInput is the admin payload for creating or renaming a category.
type CategoryInput struct {
	Name string `json:"name"`
}

// SubcategoryInput is the admin payload for a subcategory.
type SubcategoryInput struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId"`
}

// ProductInput is the admin payload for a product. It travels as the
// "product" JSON part of a multipart request.
type ProductInput struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	SubcategoryID int64           `json:"subcategoryId"`
}

// ImageUpload is an optional product image forwarded to the catalog.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
