package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
	"github.com/Nicolas78240/Arbitr/pkg/jwt"
)

// refreshTokenBytes is the entropy of the opaque refresh secret.
const refreshTokenBytes = 48

// TokenService mints access/refresh token pairs and runs the refresh-token
// rotation state machine. Every login starts a token family; rotation stays
// within the family; a replayed, already-consumed token revokes the family.
type TokenService struct {
	signer     *jwt.TokenService
	tokens     repository.RefreshTokenRepository
	evaluators repository.EvaluatorRepository
	teams      repository.TeamRepository
	refreshTTL time.Duration
}

func NewTokenService(
	signer *jwt.TokenService,
	tokens repository.RefreshTokenRepository,
	evaluators repository.EvaluatorRepository,
	teams repository.TeamRepository,
	refreshTTL time.Duration,
) *TokenService {
	return &TokenService{
		signer:     signer,
		tokens:     tokens,
		evaluators: evaluators,
		teams:      teams,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokens mints an access/refresh pair for a fresh login, opening a
// new token family. Issuance is all-or-nothing: if the refresh row cannot be
// persisted no pair is returned.
func (s *TokenService) GenerateTokens(ctx context.Context, payload domain.AuthPayload) (*domain.TokenPair, error) {
	return s.generate(ctx, payload, uuid.New())
}

func (s *TokenService) generate(ctx context.Context, payload domain.AuthPayload, familyID uuid.UUID) (*domain.TokenPair, error) {
	accessToken, err := s.signer.SignAccessToken(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := newRefreshSecret()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	row := &domain.RefreshToken{
		Token:     refreshToken,
		FamilyID:  familyID,
		UserID:    payload.Sub,
		Role:      payload.Role,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if payload.SessionID != uuid.Nil {
		sessionID := payload.SessionID
		row.SessionID = &sessionID
	}

	if err := s.tokens.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Rotate redeems a refresh token for a fresh pair and invalidates it. Every
// failure mode collapses to INVALID_REFRESH_TOKEN so callers cannot probe
// rotation state.
func (s *TokenService) Rotate(ctx context.Context, oldToken string) (*domain.TokenPair, error) {
	stored, err := s.tokens.GetByToken(ctx, oldToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	// A consumed token resurfacing means the secret leaked somewhere along
	// the chain. Kill the whole family, live successor included.
	if stored.ConsumedAt != nil {
		log.Printf("[TOKEN] Replay of consumed refresh token for %s, revoking family %s", stored.UserID, stored.FamilyID)
		if err := s.tokens.DeleteFamily(ctx, stored.FamilyID); err != nil {
			return nil, fmt.Errorf("failed to revoke token family: %w", err)
		}
		return nil, domain.ErrInvalidRefreshToken
	}

	if time.Now().After(stored.ExpiresAt) {
		if err := s.tokens.DeleteByToken(ctx, oldToken); err != nil {
			log.Printf("[TOKEN] Failed to clean up expired refresh token: %v", err)
		}
		return nil, domain.ErrInvalidRefreshToken
	}

	// Single-use enforcement. Of two concurrent rotations of the same token
	// only one wins the conditional update; the loser fails like any replay.
	won, err := s.tokens.Consume(ctx, oldToken)
	if err != nil {
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if !won {
		return nil, domain.ErrInvalidRefreshToken
	}

	payload := domain.AuthPayload{
		Sub:  stored.UserID,
		Role: stored.Role,
		Name: s.deriveName(ctx, stored),
	}
	if stored.SessionID != nil {
		payload.SessionID = *stored.SessionID
	}

	return s.generate(ctx, payload, stored.FamilyID)
}

// deriveName re-queries the live record for a display name; the name is not
// persisted with the token. A record deleted mid-session degrades to a
// generic label rather than failing the rotation.
func (s *TokenService) deriveName(ctx context.Context, stored *domain.RefreshToken) string {
	switch stored.Role {
	case domain.RoleAdmin:
		return "Admin"

	case domain.RoleEvaluator:
		id, err := uuid.Parse(stored.UserID)
		if err != nil {
			return "Evaluator"
		}
		evaluator, err := s.evaluators.GetByID(ctx, id)
		if err != nil {
			return "Evaluator"
		}
		return evaluator.Name

	case domain.RoleTeam:
		id, err := uuid.Parse(stored.UserID)
		if err != nil {
			return "Team"
		}
		team, err := s.teams.GetByID(ctx, id)
		if err != nil {
			return "Team"
		}
		return team.Name
	}

	return "Unknown"
}

// Revoke discards a refresh token. It is unconditional and idempotent: the
// caller wants the session gone, and it is gone either way.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if err := s.tokens.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAll force-logs-out a subject everywhere.
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	if err := s.tokens.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for user: %w", err)
	}
	return nil
}

// SweepExpired removes expired refresh token rows. Called periodically from
// the background sweeper.
func (s *TokenService) SweepExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx)
}

// newRefreshSecret builds the opaque refresh token string. It is random,
// not self-describing, and only ever matched by exact equality in the store.
func newRefreshSecret() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
