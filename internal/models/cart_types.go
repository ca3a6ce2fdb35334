package models

import "time"

// CartItem defines the struct for the 'cart_items' table. Price is a
// snapshot of product price x quantity taken when the line is inserted
// or its quantity changes; it goes stale if the product price moves.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"product" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Join (populated manually)
	Product *Product `json:"productDetails,omitempty" db:"-"`
}
