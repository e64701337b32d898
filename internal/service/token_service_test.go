package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository/mocks"
	"github.com/Nicolas78240/Arbitr/pkg/jwt"
)

type tokenFixture struct {
	service    *TokenService
	signer     *jwt.TokenService
	tokens     *mocks.RefreshTokenRepository
	evaluators *mocks.EvaluatorRepository
	teams      *mocks.TeamRepository
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()

	signer, err := jwt.NewTokenService("test-secret", 15*time.Minute, "arbitr")
	require.NoError(t, err)

	tokens := mocks.NewRefreshTokenRepository()
	evaluators := mocks.NewEvaluatorRepository()
	teams := mocks.NewTeamRepository()

	return &tokenFixture{
		service:    NewTokenService(signer, tokens, evaluators, teams, 7*24*time.Hour),
		signer:     signer,
		tokens:     tokens,
		evaluators: evaluators,
		teams:      teams,
	}
}

func evaluatorPayload(evaluator *domain.Evaluator) domain.AuthPayload {
	return domain.AuthPayload{
		Sub:       evaluator.ID.String(),
		Role:      domain.RoleEvaluator,
		SessionID: evaluator.SessionID,
		Name:      evaluator.Name,
	}
}

func TestGenerateTokens(t *testing.T) {
	f := newTokenFixture(t)
	sessionID := uuid.New()

	pair, err := f.service.GenerateTokens(context.Background(), domain.AuthPayload{
		Sub:       "admin:" + sessionID.String(),
		Role:      domain.RoleAdmin,
		SessionID: sessionID,
		Name:      "Admin",
	})
	require.NoError(t, err)

	// Access token is self-contained and carries the full claim set
	claims, err := f.signer.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin:"+sessionID.String(), claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, sessionID.String(), claims.SessionID)
	assert.Equal(t, "Admin", claims.Name)

	// Refresh token is opaque, 48 bytes hex-encoded, persisted unconsumed
	assert.Len(t, pair.RefreshToken, 96)
	stored, err := f.tokens.GetByToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "admin:"+sessionID.String(), stored.UserID)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
	require.NotNil(t, stored.SessionID)
	assert.Equal(t, sessionID, *stored.SessionID)
	assert.Nil(t, stored.ConsumedAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), stored.ExpiresAt, 5*time.Second)
}

func TestGenerateTokensAllOrNothing(t *testing.T) {
	f := newTokenFixture(t)
	f.tokens.FailCreate = true

	pair, err := f.service.GenerateTokens(context.Background(), domain.AuthPayload{
		Sub:       "admin:x",
		Role:      domain.RoleAdmin,
		SessionID: uuid.New(),
		Name:      "Admin",
	})
	require.Error(t, err)
	assert.Nil(t, pair, "no pair may escape when the refresh row was not persisted")
	assert.Equal(t, 0, f.tokens.Count())
}

func TestRotateIssuesFreshPairAndBurnsOld(t *testing.T) {
	f := newTokenFixture(t)
	evaluator := seedEvaluator(t, f.evaluators, uuid.New(), "Alice", "EVAL42")

	pair, err := f.service.GenerateTokens(context.Background(), evaluatorPayload(evaluator))
	require.NoError(t, err)

	rotated, err := f.service.Rotate(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Display name is re-derived from the live record
	claims, err := f.signer.ValidateToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, evaluator.ID.String(), claims.Subject)
	assert.Equal(t, domain.RoleEvaluator, claims.Role)
	assert.Equal(t, "Alice", claims.Name)

	// Replaying the consumed token always fails
	_, err = f.service.Rotate(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestRotateUnknownToken(t *testing.T) {
	f := newTokenFixture(t)

	_, err := f.service.Rotate(context.Background(), "never-issued")
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestRotateExpiredTokenCleansUp(t *testing.T) {
	f := newTokenFixture(t)

	expired := &domain.RefreshToken{
		Token:     "expired-token",
		FamilyID:  uuid.New(),
		UserID:    "admin:x",
		Role:      domain.RoleAdmin,
		ExpiresAt: time.Now().Add(-time.Hour),
		CreatedAt: time.Now().Add(-8 * 24 * time.Hour),
	}
	require.NoError(t, f.tokens.Create(context.Background(), expired))

	_, err := f.service.Rotate(context.Background(), "expired-token")
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
	assert.Equal(t, 0, f.tokens.Count(), "expired row is removed on the way out")
}

func TestReplayRevokesWholeFamily(t *testing.T) {
	f := newTokenFixture(t)
	evaluator := seedEvaluator(t, f.evaluators, uuid.New(), "Alice", "EVAL42")

	first, err := f.service.GenerateTokens(context.Background(), evaluatorPayload(evaluator))
	require.NoError(t, err)

	second, err := f.service.Rotate(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	// Replaying the stale first token means the secret leaked. The live
	// successor dies with it.
	_, err = f.service.Rotate(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	_, err = f.service.Rotate(context.Background(), second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
	assert.Equal(t, 0, f.tokens.Count())
}

func TestRotationChain(t *testing.T) {
	f := newTokenFixture(t)
	evaluator := seedEvaluator(t, f.evaluators, uuid.New(), "Alice", "EVAL42")

	pair, err := f.service.GenerateTokens(context.Background(), evaluatorPayload(evaluator))
	require.NoError(t, err)

	seen := map[string]bool{pair.RefreshToken: true}
	for i := 0; i < 5; i++ {
		pair, err = f.service.Rotate(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.False(t, seen[pair.RefreshToken], "rotation %d reissued a token", i)
		seen[pair.RefreshToken] = true
	}
}

func TestRotateFallbackNameWhenRecordDeleted(t *testing.T) {
	f := newTokenFixture(t)
	evaluator := seedEvaluator(t, f.evaluators, uuid.New(), "Alice", "EVAL42")

	pair, err := f.service.GenerateTokens(context.Background(), evaluatorPayload(evaluator))
	require.NoError(t, err)

	// Roster record removed mid-session: rotation still succeeds with a
	// generic display name.
	require.NoError(t, f.evaluators.Delete(context.Background(), evaluator.ID))

	rotated, err := f.service.Rotate(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := f.signer.ValidateToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Evaluator", claims.Name)
}

func TestRevokeIdempotent(t *testing.T) {
	f := newTokenFixture(t)
	evaluator := seedEvaluator(t, f.evaluators, uuid.New(), "Alice", "EVAL42")

	pair, err := f.service.GenerateTokens(context.Background(), evaluatorPayload(evaluator))
	require.NoError(t, err)

	require.NoError(t, f.service.Revoke(context.Background(), pair.RefreshToken))
	_, err = f.service.Rotate(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	// Revoking again, or revoking garbage, is still fine
	assert.NoError(t, f.service.Revoke(context.Background(), pair.RefreshToken))
	assert.NoError(t, f.service.Revoke(context.Background(), "never-issued"))
}

func TestRevokeAll(t *testing.T) {
	f := newTokenFixture(t)
	evaluator := seedEvaluator(t, f.evaluators, uuid.New(), "Alice", "EVAL42")
	other := seedEvaluator(t, f.evaluators, uuid.New(), "Bob", "EVAL43")

	first, err := f.service.GenerateTokens(context.Background(), evaluatorPayload(evaluator))
	require.NoError(t, err)
	second, err := f.service.GenerateTokens(context.Background(), evaluatorPayload(evaluator))
	require.NoError(t, err)
	kept, err := f.service.GenerateTokens(context.Background(), evaluatorPayload(other))
	require.NoError(t, err)

	require.NoError(t, f.service.RevokeAll(context.Background(), evaluator.ID.String()))

	_, err = f.service.Rotate(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
	_, err = f.service.Rotate(context.Background(), second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	// Other subjects are untouched
	_, err = f.service.Rotate(context.Background(), kept.RefreshToken)
	assert.NoError(t, err)
}

func TestSweepExpired(t *testing.T) {
	f := newTokenFixture(t)

	require.NoError(t, f.tokens.Create(context.Background(), &domain.RefreshToken{
		Token:     "stale",
		FamilyID:  uuid.New(),
		UserID:    "admin:x",
		Role:      domain.RoleAdmin,
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-8 * 24 * time.Hour),
	}))
	require.NoError(t, f.tokens.Create(context.Background(), &domain.RefreshToken{
		Token:     "fresh",
		FamilyID:  uuid.New(),
		UserID:    "admin:y",
		Role:      domain.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}))

	removed, err := f.service.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, f.tokens.Count())
}

func TestConcurrentRotationSingleWinner(t *testing.T) {
	f := newTokenFixture(t)
	evaluator := seedEvaluator(t, f.evaluators, uuid.New(), "Alice", "EVAL42")

	pair, err := f.service.GenerateTokens(context.Background(), evaluatorPayload(evaluator))
	require.NoError(t, err)

	const rotations = 8
	results := make(chan error, rotations)
	for i := 0; i < rotations; i++ {
		go func() {
			_, err := f.service.Rotate(context.Background(), pair.RefreshToken)
			results <- err
		}()
	}

	var wins int
	for i := 0; i < rotations; i++ {
		if err := <-results; err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent rotation may succeed")
}
