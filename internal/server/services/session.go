// Package services contains server-side business logic. This file implements
// SessionService, the refresh-token state machine: session creation,
// validation, single-use rotation with reuse detection, and revocation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avetrovs/sessionkeeper/internal/common"
	"github.com/avetrovs/sessionkeeper/internal/dbx"
	"github.com/avetrovs/sessionkeeper/internal/server/auth"
	"github.com/avetrovs/sessionkeeper/internal/server/config"
	"github.com/avetrovs/sessionkeeper/internal/server/models"
	"github.com/avetrovs/sessionkeeper/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and the raw secret of a
// long-lived refresh token. The raw secret exists only here; the store keeps
// its digest.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// errRotationLost marks a rotation whose conditional revoke affected no
// rows: another writer rotated or revoked the record first. It never leaves
// this package; callers see ErrBreachDetected.
var errRotationLost = errors.New("rotation lost to concurrent writer")

// SessionService provides the refresh-token lifecycle:
//   - CreateSession: mint an access/refresh pair for a user
//   - Validate: pure read-only check of a raw refresh secret
//   - Rotate: single-use exchange of a refresh secret for a fresh pair,
//     with breach containment on reuse
//   - Revoke / RevokeAllForUser: logout for one session or all of them
//   - Cleanup: purge records that are already logically dead
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewSessionService constructs a SessionService using repositories and
// server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// WithClock replaces the service clock; tests use it to move time without
// sleeping.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// CreateSession mints a new token pair for userID. The returned refresh
// secret is handed out exactly once and cannot be recovered later.
func (s *SessionService) CreateSession(ctx context.Context, userID string) (*TokenPair, error) {
	return s.generateTokenPair(ctx, userID, s.db)
}

// Validate looks the raw secret up by digest and reports whether it still
// identifies a live session. Read-only: no state changes, no breach
// containment.
func (s *SessionService) Validate(ctx context.Context, rawSecret string) (*models.RefreshToken, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.FindByHash(ctx, common.HashToken(rawSecret))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if token.Revoked {
		return nil, common.ErrorNotFound
	}
	if token.Expired(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}
	return token, nil
}

// Rotate exchanges a refresh secret for a fresh token pair. Each secret is
// valid for exactly one rotation; presenting an already-revoked secret is
// the theft signal, answered by revoking every session of the owner and
// returning ErrBreachDetected. The revoke-and-reissue runs in one
// transaction, so a canceled call either fully completed or left the old
// record untouched.
func (s *SessionService) Rotate(ctx context.Context, rawSecret string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.FindByHash(ctx, common.HashToken(rawSecret))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if token.Revoked {
		return nil, s.containBreach(ctx, token.UserID)
	}
	if token.Expired(s.now()) {
		// Time-barred but never reused: fails quietly, no containment.
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)

		flipped, err := repoTx.Revoke(ctx, token.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
		}
		if !flipped {
			return errRotationLost
		}

		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	})
	if err != nil {
		if errors.Is(err, errRotationLost) {
			// The record was revoked between our read and our write; that
			// is indistinguishable from reuse of a rotated secret.
			return nil, s.containBreach(ctx, token.UserID)
		}
		return nil, err
	}

	return pair, nil
}

// Revoke invalidates a single session (logout). Idempotent: an unknown or
// already-revoked secret is not an error.
func (s *SessionService) Revoke(ctx context.Context, rawSecret string) error {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.FindByHash(ctx, common.HashToken(rawSecret))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if _, err := repo.Revoke(ctx, token.ID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// RevokeAllForUser kills every live session of a user ("log out everywhere"
// and breach containment). Returns how many sessions were newly revoked.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	affected, err := repo.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return affected, nil
}

// Cleanup removes expired and revoked records. Housekeeping only; no
// security decision depends on it having run.
func (s *SessionService) Cleanup(ctx context.Context) (int64, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	deleted, err := repo.DeleteExpiredAndRevoked(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return deleted, nil
}

// containBreach revokes every session of the user and reports the breach.
func (s *SessionService) containBreach(ctx context.Context, userID string) error {
	repo := s.repomanager.RefreshTokens(s.db)

	if _, err := repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return common.ErrBreachDetected
}

func (s *SessionService) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	raw, err := common.MakeRandURLSafeString(common.RefreshTokenByteSize)
	if err != nil {
		return nil, common.ErrorInternal
	}

	now := s.now()
	record := &models.RefreshToken{
		UserID:    userID,
		TokenHash: common.HashToken(raw),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTokenValidityDuration),
	}

	repo := s.repomanager.RefreshTokens(db)
	if _, err := repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: raw}, nil
}
