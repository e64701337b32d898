package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
)

type refreshTokenRepository struct {
	db *sqlx.DB
}

// NewRefreshTokenRepository creates a new PostgreSQL refresh token repository
func NewRefreshTokenRepository(db *sqlx.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Create inserts a new refresh token row into the database
func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (
			token, family_id, user_id, role, session_id,
			expires_at, consumed_at, created_at
		) VALUES (
			:token, :family_id, :user_id, :role, :session_id,
			:expires_at, :consumed_at, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

// GetByToken retrieves a refresh token row by exact token match
func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT token, family_id, user_id, role, session_id,
			   expires_at, consumed_at, created_at
		FROM refresh_tokens
		WHERE token = $1`

	var stored domain.RefreshToken
	err := r.db.GetContext(ctx, &stored, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &stored, nil
}

// Consume marks a token redeemed. The WHERE clause only matches an unconsumed
// row, so of any number of concurrent redeemers exactly one sees rows == 1.
func (r *refreshTokenRepository) Consume(ctx context.Context, token string) (bool, error) {
	query := `
		UPDATE refresh_tokens
		SET consumed_at = $1
		WHERE token = $2 AND consumed_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, time.Now(), token)
	if err != nil {
		return false, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

// DeleteByToken removes a refresh token row. Deleting a token that does not
// exist is not an error.
func (r *refreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`

	_, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

// DeleteByUserID removes every refresh token row belonging to a subject
func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh tokens by user: %w", err)
	}

	return nil
}

// DeleteFamily removes an entire rotation chain
func (r *refreshTokenRepository) DeleteFamily(ctx context.Context, familyID uuid.UUID) error {
	query := `DELETE FROM refresh_tokens WHERE family_id = $1`

	_, err := r.db.ExecContext(ctx, query, familyID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token family: %w", err)
	}

	return nil
}

// DeleteExpired removes all expired refresh token rows and reports how many
func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at <= $1`

	result, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
