// Package model defines the data structures used throughout the application.
package model

import "time"

// Account represents a registered player identity.
//
// The contact key is the login identifier (an email or handle). It is unique
// case-insensitively: the store enforces the constraint and creation fails on
// a duplicate. The secret is stored only as a bcrypt hash and is never
// serialized into API responses.
type Account struct {
	ID         string    `json:"id"       db:"id"`
	Name       string    `json:"name"     db:"name"`
	Contact    string    `json:"contact"  db:"contact"`
	SecretHash string    `json:"-"        db:"secret_hash"`
	Cosmetic   string    `json:"cosmetic" db:"cosmetic"` // avatar reference, e.g. "avatar_042"
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicAccount is the subset of Account exposed on read endpoints.
// Contact stays private to the owner; the hash never leaves the server.
type PublicAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Cosmetic string `json:"cosmetic"`
}

// Public strips an Account down to its publicly visible fields.
func (a *Account) Public() PublicAccount {
	return PublicAccount{ID: a.ID, Name: a.Name, Cosmetic: a.Cosmetic}
}
