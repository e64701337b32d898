package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
)

// EvaluatorRepository is a thread-safe in-memory implementation used in tests.
type EvaluatorRepository struct {
	mu         sync.RWMutex
	evaluators map[uuid.UUID]domain.Evaluator
}

func NewEvaluatorRepository() *EvaluatorRepository {
	return &EvaluatorRepository{
		evaluators: make(map[uuid.UUID]domain.Evaluator),
	}
}

func (r *EvaluatorRepository) Create(_ context.Context, evaluator *domain.Evaluator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evaluators[evaluator.ID] = *evaluator
	return nil
}

func (r *EvaluatorRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Evaluator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	evaluator, ok := r.evaluators[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &evaluator, nil
}

func (r *EvaluatorRepository) ListBySession(_ context.Context, sessionID uuid.UUID) ([]*domain.Evaluator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var evaluators []*domain.Evaluator
	for id := range r.evaluators {
		if r.evaluators[id].SessionID == sessionID {
			evaluator := r.evaluators[id]
			evaluators = append(evaluators, &evaluator)
		}
	}
	sort.Slice(evaluators, func(i, j int) bool {
		return evaluators[i].CreatedAt.Before(evaluators[j].CreatedAt)
	})
	return evaluators, nil
}

func (r *EvaluatorRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.evaluators[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.evaluators, id)
	return nil
}
