package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Consume marks the row redeemed. It reports true only for the single
	// caller that flipped the row from unconsumed to consumed; concurrent
	// callers racing on the same token all see false.
	Consume(ctx context.Context, token string) (bool, error)
	// DeleteByToken is idempotent: deleting a token that never existed or is
	// already gone is not an error.
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteFamily(ctx context.Context, familyID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
