// Authenticator turns a bearer string into a verified principal. It is the
// only piece of the core the request-authorization path needs.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avetrovs/sessionkeeper/internal/common"
	"github.com/avetrovs/sessionkeeper/internal/server/auth"
	"github.com/avetrovs/sessionkeeper/internal/server/models"
	"github.com/avetrovs/sessionkeeper/internal/server/repositories/repomanager"
)

// Authenticator resolves "Authorization: Bearer ..." values to users.
// Every verification failure collapses to common.ErrorUnauthorized; the
// caller decides whether anonymity is acceptable.
type Authenticator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
}

// NewAuthenticator constructs an Authenticator for the given signing secret.
func NewAuthenticator(db *sql.DB, m repomanager.RepositoryManager, secretKey string) *Authenticator {
	return &Authenticator{db: db, repomanager: m, jwtSecret: []byte(secretKey)}
}

// Authenticate strips the bearer scheme, verifies the access token, and
// resolves the embedded user ID to an account.
func (a *Authenticator) Authenticate(ctx context.Context, bearer string) (*models.User, error) {
	token, ok := stripBearerScheme(bearer)
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	userID, err := auth.GetUserIDFromToken(token, a.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	repo := a.repomanager.Users(a.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return user, nil
}

// stripBearerScheme removes a case-insensitive "Bearer " prefix.
func stripBearerScheme(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) <= len(common.BearerSchemePrefix) {
		return "", false
	}
	if !strings.EqualFold(header[:len(common.BearerSchemePrefix)], common.BearerSchemePrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerSchemePrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
