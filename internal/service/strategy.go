package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
)

// Credentials is what every login endpoint collects: the session being
// entered and the access code presented for it.
type Credentials struct {
	SessionID uuid.UUID
	Code      string
}

// AuthStrategy verifies one category of credential. A failure is a typed
// *domain.AuthError; anything else is an infrastructure problem.
type AuthStrategy interface {
	Name() string
	Authenticate(ctx context.Context, creds Credentials) (*domain.AuthPayload, error)
}

// StrategyRegistry maps strategy names to verifiers so the HTTP layer can
// dispatch without role-specific branches. It is populated once during
// wiring and read-only afterwards.
type StrategyRegistry struct {
	strategies map[string]AuthStrategy
}

func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		strategies: make(map[string]AuthStrategy),
	}
}

// Register stores a strategy under its name. Re-registering the same name
// replaces the previous entry.
func (r *StrategyRegistry) Register(strategy AuthStrategy) {
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns the strategy registered under name. An unknown name is a
// programming error in the route wiring, not a user-facing failure.
func (r *StrategyRegistry) Resolve(name string) (AuthStrategy, error) {
	strategy, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("auth strategy %q not registered", name)
	}
	return strategy, nil
}

func (r *StrategyRegistry) Has(name string) bool {
	_, ok := r.strategies[name]
	return ok
}
