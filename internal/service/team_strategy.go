package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
	"github.com/Nicolas78240/Arbitr/pkg/hash"
)

const StrategyTeamCode = "team-code"

// TeamCodeStrategy authenticates a submitting team. Unlike evaluators, teams
// only get in while the session is strictly ACTIVE: the submission window
// shuts with the session.
type TeamCodeStrategy struct {
	sessions repository.SessionRepository
	teams    repository.TeamRepository
}

func NewTeamCodeStrategy(
	sessions repository.SessionRepository,
	teams repository.TeamRepository,
) *TeamCodeStrategy {
	return &TeamCodeStrategy{
		sessions: sessions,
		teams:    teams,
	}
}

func (s *TeamCodeStrategy) Name() string {
	return StrategyTeamCode
}

func (s *TeamCodeStrategy) Authenticate(ctx context.Context, creds Credentials) (*domain.AuthPayload, error) {
	session, err := s.sessions.GetByID(ctx, creds.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Status != domain.SessionStatusActive {
		return nil, domain.ErrSessionNotActiveSubmissions
	}

	teams, err := s.teams.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	for _, team := range teams {
		valid, err := hash.VerifyCode(creds.Code, team.CodeHash)
		if err != nil {
			return nil, fmt.Errorf("failed to verify team code: %w", err)
		}
		if valid {
			return &domain.AuthPayload{
				Sub:       team.ID.String(),
				Role:      domain.RoleTeam,
				SessionID: session.ID,
				Name:      team.Name,
			}, nil
		}
	}

	return nil, domain.ErrInvalidTeamCode
}
