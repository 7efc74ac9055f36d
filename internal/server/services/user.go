// UserService handles registration and login: it verifies credentials and
// delegates session issuance to SessionService.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avetrovs/sessionkeeper/internal/common"
	"github.com/avetrovs/sessionkeeper/internal/server/models"
	"github.com/avetrovs/sessionkeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AuthResult bundles the authenticated user and their fresh token pair, so
// the transport can set the refresh cookie and marshal the body separately.
type AuthResult struct {
	User   *models.User
	Tokens *TokenPair
}

// UserService provides account-level operations:
//   - Register: create a user and start their first session
//   - Login: verify credentials and start a session
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
}

// NewUserService constructs a UserService on top of a SessionService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService) *UserService {
	return &UserService{db: db, repomanager: m, sessions: sessions}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates a new account and issues its first session. A duplicate
// email yields common.ErrEmailAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailAlreadyExists) {
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	tokens, err := s.sessions.CreateSession(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: created, Tokens: tokens}, nil
}

// Login verifies the email/password pair and issues a session. Unknown
// email and wrong password are deliberately indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	tokens, err := s.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}
