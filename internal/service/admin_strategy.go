package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
	"github.com/Nicolas78240/Arbitr/pkg/hash"
)

const StrategyAdminCode = "admin-code"

// AdminCodeStrategy authenticates the session administrator against the
// session's own admin code hash. Admins may log in regardless of session
// status so they can manage drafts and read closed results.
type AdminCodeStrategy struct {
	sessions repository.SessionRepository
}

func NewAdminCodeStrategy(sessions repository.SessionRepository) *AdminCodeStrategy {
	return &AdminCodeStrategy{sessions: sessions}
}

func (s *AdminCodeStrategy) Name() string {
	return StrategyAdminCode
}

func (s *AdminCodeStrategy) Authenticate(ctx context.Context, creds Credentials) (*domain.AuthPayload, error) {
	session, err := s.sessions.GetByID(ctx, creds.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	valid, err := hash.VerifyCode(creds.Code, session.AdminCodeHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify admin code: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidAdminCode
	}

	return &domain.AuthPayload{
		Sub:       "admin:" + session.ID.String(),
		Role:      domain.RoleAdmin,
		SessionID: session.ID,
		Name:      "Admin",
	}, nil
}
