package models

import "time"

// Store types accepted on creation.
var StoreTypes = []string{"grocery", "convenience", "supermart"}

// Store is the model for the 'stores' table. Each store is owned by
// exactly one admin; StoreCode is a short code customers use to find
// the store.
type Store struct {
	ID            int64    `json:"id" db:"id"`
	Name          string   `json:"name" db:"name"`
	Type          string   `json:"type" db:"type"`
	Location      *string  `json:"location,omitempty" db:"location"`
	OpeningTime   string   `json:"openingTime" db:"opening_time"`
	ClosingTime   string   `json:"closingTime" db:"closing_time"`
	ContactNumber string   `json:"contactNumber" db:"contact_number"`
	Rating        *float64 `json:"rating,omitempty" db:"rating"`
	Description   string   `json:"description" db:"description"`
	Image         *string  `json:"image,omitempty" db:"image"`
	Banner        *string  `json:"banner,omitempty" db:"banner"`
	AdminID       int64    `json:"user" db:"admin_id"`
	StoreCode     string   `json:"storeCode" db:"store_code"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
