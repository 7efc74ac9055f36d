// Package users declares the server-side repository contract for user
// accounts and provides its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/avetrovs/sessionkeeper/internal/server/models"
)

// Repository defines persistence operations over user accounts.
type Repository interface {
	// Create stores a new user and returns it with the assigned ID.
	// A duplicate email yields common.ErrEmailAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email, or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given ID, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
