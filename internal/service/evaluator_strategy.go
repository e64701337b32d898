package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
	"github.com/Nicolas78240/Arbitr/pkg/hash"
)

const StrategyEvaluatorCode = "evaluator-code"

// EvaluatorCodeStrategy authenticates a juror against every evaluator hash
// registered on the session. Codes are stored only as salted hashes, so
// there is no lookup key; verification is a linear scan with early exit,
// bounded by the handful of evaluators a session carries. Evaluators may
// still log in on a CLOSED session to view results.
type EvaluatorCodeStrategy struct {
	sessions   repository.SessionRepository
	evaluators repository.EvaluatorRepository
}

func NewEvaluatorCodeStrategy(
	sessions repository.SessionRepository,
	evaluators repository.EvaluatorRepository,
) *EvaluatorCodeStrategy {
	return &EvaluatorCodeStrategy{
		sessions:   sessions,
		evaluators: evaluators,
	}
}

func (s *EvaluatorCodeStrategy) Name() string {
	return StrategyEvaluatorCode
}

func (s *EvaluatorCodeStrategy) Authenticate(ctx context.Context, creds Credentials) (*domain.AuthPayload, error) {
	session, err := s.sessions.GetByID(ctx, creds.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Status != domain.SessionStatusActive && session.Status != domain.SessionStatusClosed {
		return nil, domain.ErrSessionNotActive
	}

	evaluators, err := s.evaluators.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluators: %w", err)
	}

	for _, evaluator := range evaluators {
		valid, err := hash.VerifyCode(creds.Code, evaluator.CodeHash)
		if err != nil {
			return nil, fmt.Errorf("failed to verify evaluator code: %w", err)
		}
		if valid {
			return &domain.AuthPayload{
				Sub:       evaluator.ID.String(),
				Role:      domain.RoleEvaluator,
				SessionID: session.ID,
				Name:      evaluator.Name,
			}, nil
		}
	}

	return nil, domain.ErrInvalidEvaluatorCode
}
