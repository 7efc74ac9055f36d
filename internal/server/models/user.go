// Package models holds the server-side domain entities.
package models

import "time"

// User is an account holder. The session core only ever references ID;
// the remaining fields belong to the registration/login flow.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}
