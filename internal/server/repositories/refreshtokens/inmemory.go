package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/avetrovs/sessionkeeper/internal/common"
	"github.com/avetrovs/sessionkeeper/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository is the reference Repository implementation: a
// mutex-guarded map keyed by token hash. It backs service-level tests and
// any deployment that can live without durable sessions.
type InMemoryRepository struct {
	mu     sync.Mutex
	byHash map[string]*models.RefreshToken
}

// NewInMemoryRepository constructs an empty in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byHash: make(map[string]*models.RefreshToken)}
}

func (r *InMemoryRepository) Create(_ context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *token
	stored.ID = uuid.NewString()
	r.byHash[stored.TokenHash] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) FindByHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.byHash[tokenHash]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *token
	return &out, nil
}

func (r *InMemoryRepository) Revoke(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, token := range r.byHash {
		if token.ID == id {
			if token.Revoked {
				return false, nil
			}
			token.Revoked = true
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) RevokeAllForUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for _, token := range r.byHash {
		if token.UserID == userID && !token.Revoked {
			token.Revoked = true
			affected++
		}
	}
	return affected, nil
}

func (r *InMemoryRepository) DeleteExpiredAndRevoked(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var deleted int64
	for hash, token := range r.byHash {
		if token.Revoked || token.Expired(now) {
			delete(r.byHash, hash)
			deleted++
		}
	}
	return deleted, nil
}
