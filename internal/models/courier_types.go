package models

import "time"

// Courier is a delivery-rider account (the 'couriers' table).
type Courier struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	FullName     string `json:"fullName" db:"full_name"`
	Phone        string `json:"phone" db:"phone"`
	Vehicle      string `json:"vehicle" db:"vehicle"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
