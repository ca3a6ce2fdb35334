package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Address holds the structured postal address shared by customers and
// store admins. Pointers keep absent fields out of the JSON.
type Address struct {
	Address *string `json:"address,omitempty" db:"address_line"`
	City    *string `json:"city,omitempty" db:"city"`
	State   *string `json:"state,omitempty" db:"state"`
	Pin     *string `json:"pin,omitempty" db:"pin"`
	Country *string `json:"country,omitempty" db:"country"`
}

// User is a customer account (the 'users' table).
type User struct {
	ID           int64   `json:"id" db:"id"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	FullName     string  `json:"fullName" db:"full_name"`
	PhoneNumber  *string `json:"phoneNumber,omitempty" db:"phone_number"`
	Address      Address `json:"address"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Password wraps a plaintext/bcrypt-hash pair so handlers never touch
// bcrypt directly.
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
