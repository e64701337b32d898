package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
)

// TeamRepository is a thread-safe in-memory implementation used in tests.
type TeamRepository struct {
	mu    sync.RWMutex
	teams map[uuid.UUID]domain.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		teams: make(map[uuid.UUID]domain.Team),
	}
}

func (r *TeamRepository) Create(_ context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams[team.ID] = *team
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &team, nil
}

func (r *TeamRepository) ListBySession(_ context.Context, sessionID uuid.UUID) ([]*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var teams []*domain.Team
	for id := range r.teams {
		if r.teams[id].SessionID == sessionID {
			team := r.teams[id]
			teams = append(teams, &team)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})
	return teams, nil
}

func (r *TeamRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.teams, id)
	return nil
}
