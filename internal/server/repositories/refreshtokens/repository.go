// Package refreshtokens declares the storage contract for refresh-token
// records and provides PostgreSQL and in-memory implementations.
//
// The contract is pure storage: every security decision (rotation, reuse
// detection, breach containment) lives in the session service.
package refreshtokens

import (
	"context"

	"github.com/avetrovs/sessionkeeper/internal/server/models"
)

// Repository defines the operations the session service requires of any
// refresh-token store.
type Repository interface {
	// Create inserts a new record and returns it with the store-assigned ID.
	Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)

	// FindByHash looks a record up by the digest of its raw secret.
	// Returns common.ErrorNotFound when no record matches.
	FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// Revoke flips revoked to true for the record with the given ID, but
	// only if it is not revoked yet. The boolean reports whether this call
	// performed the flip; a false result means another writer got there
	// first (or the ID is unknown). Rotation safety depends on this being
	// a single conditional update.
	Revoke(ctx context.Context, id string) (bool, error)

	// RevokeAllForUser flips revoked to true on every live record owned by
	// userID and returns how many records were affected. Idempotent.
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)

	// DeleteExpiredAndRevoked removes records that are already logically
	// dead. Housekeeping only; safe to run concurrently with everything.
	DeleteExpiredAndRevoked(ctx context.Context) (int64, error)
}
