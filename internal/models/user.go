// Package models defines the records shared by the store, the auth core
// and the outer surfaces.
package models

import "time"

// User is the authentication subject.
//
// ID is whatever identifier the store hands back (the public, encoded form).
// Secret holds the stored credential (ciphertext or hash) and must be cleared
// with Scrubbed before a record leaves the service.
type User struct {
	ID        string
	UserName  string
	Email     string
	Secret    string
	CreatedAt time.Time
}

// IsEmpty reports whether u is the "not found" value, i.e. every field is zero.
func (u User) IsEmpty() bool {
	return u.ID == "" && u.UserName == "" && u.Email == "" && u.Secret == "" && u.CreatedAt.IsZero()
}

// Scrubbed returns a copy of u without the secret.
func (u User) Scrubbed() User {
	u.Secret = ""
	return u
}
