package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	List(ctx context.Context) ([]*domain.Session, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
