package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
)

type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
