package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
)

// RefreshTokenRepository is a thread-safe in-memory implementation used in
// tests. Consume mirrors the conditional-update semantics of the Postgres
// implementation: exactly one caller wins per token.
type RefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]domain.RefreshToken

	// FailCreate makes the next Create call fail, for all-or-nothing
	// issuance tests.
	FailCreate bool
}

func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{
		tokens: make(map[string]domain.RefreshToken),
	}
}

func (r *RefreshTokenRepository) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate {
		r.FailCreate = false
		return errors.New("store unavailable")
	}

	r.tokens[token.Token] = *token
	return nil
}

func (r *RefreshTokenRepository) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tokens[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *RefreshTokenRepository) Consume(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tokens[token]
	if !ok || stored.ConsumedAt != nil {
		return false, nil
	}

	now := time.Now()
	stored.ConsumedAt = &now
	r.tokens[token] = stored
	return true, nil
}

func (r *RefreshTokenRepository) DeleteByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}

func (r *RefreshTokenRepository) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token := range r.tokens {
		if r.tokens[token].UserID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteFamily(_ context.Context, familyID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token := range r.tokens {
		if r.tokens[token].FamilyID == familyID {
			delete(r.tokens, token)
		}
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	now := time.Now()
	for token := range r.tokens {
		if r.tokens[token].ExpiresAt.Before(now) {
			delete(r.tokens, token)
			removed++
		}
	}
	return removed, nil
}

// Count reports how many rows are stored, consumed included.
func (r *RefreshTokenRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tokens)
}
