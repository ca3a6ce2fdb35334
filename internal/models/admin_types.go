package models

import "time"

// Admin roles. An admin registers as a plain "user" and is promoted to
// "store-owner" when they create their store.
const (
	AdminRoleUser       = "user"
	AdminRoleStoreOwner = "store-owner"
)

// Admin is a store-admin account (the 'admins' table).
type Admin struct {
	ID           int64   `json:"id" db:"id"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	FullName     string  `json:"fullName" db:"full_name"`
	PhoneNumber  *string `json:"phoneNumber,omitempty" db:"phone_number"`
	Address      Address `json:"address"`
	Role         string  `json:"role" db:"role"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
