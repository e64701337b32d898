package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
)

type EvaluatorRepository interface {
	Create(ctx context.Context, evaluator *domain.Evaluator) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Evaluator, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Evaluator, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
