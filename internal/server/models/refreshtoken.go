package models

import "time"

// RefreshToken is the stored form of a refresh credential. TokenHash is the
// SHA-256 hex digest of the raw secret; the raw secret itself never reaches
// storage. Revoked flips false to true exactly once and never back.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// Expired reports whether the token is time-barred at the given instant.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
