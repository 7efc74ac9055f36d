// Package common defines shared constants, sentinel errors, and small
// crypto helpers used across sessionkeeper components. Callers should use
// errors.Is to match the sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrEmailAlreadyExists signals a registration attempt for an email
	// that already has an account.
	ErrEmailAlreadyExists = errors.New("email already registered")

	// Auth errors (invalid or malformed access token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrBreachDetected signals reuse of an already-revoked refresh token.
	// By the time a caller sees it, every session of the affected user has
	// been revoked.
	ErrBreachDetected = errors.New("refresh token reuse detected")

	// ErrStoreUnavailable distinguishes persistence failures from invalid
	// credentials; it is retryable and must never be reported as "invalid".
	ErrStoreUnavailable = errors.New("token store unavailable")
)
