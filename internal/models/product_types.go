package models

import (
	"time"
)

// Product statuses. out_of_stock is a display status only; stock is
// the authoritative availability count.
const (
	ProductActive     = "active"
	ProductInactive   = "inactive"
	ProductOutOfStock = "out_of_stock"
)

// Product is the model for the 'products' table.
// Images and Tags are stored as JSON text columns and decoded when the
// row is scanned.
type Product struct {
	ID          int64  `json:"id" db:"id"`
	StoreID     int64  `json:"store" db:"store_id"`
	Name        string `json:"name" db:"name"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`

	// --- Pricing & Stock ---
	Price              float64 `json:"price" db:"price"`
	DiscountPercentage float64 `json:"discountPercentage" db:"discount_percentage"`
	Stock              int     `json:"stock" db:"stock"`

	SKU        string   `json:"sku" db:"sku"`
	Weight     float64  `json:"weight" db:"weight"`
	IsFeatured bool     `json:"isFeatured" db:"is_featured"`
	Images     []string `json:"images"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status" db:"status"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (not product table columns, populated manually)
	Categories []CategoryRef `json:"categories,omitempty" db:"-"`
	Store      *Store        `json:"storeDetails,omitempty" db:"-"`
}
