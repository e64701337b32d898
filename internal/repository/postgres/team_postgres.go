package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
)

type teamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository creates a new PostgreSQL team repository
func NewTeamRepository(db *sqlx.DB) repository.TeamRepository {
	return &teamRepository{db: db}
}

// Create inserts a new team into the database
func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	query := `
		INSERT INTO teams (
			id, session_id, name, code_hash, created_at
		) VALUES (
			:id, :session_id, :name, :code_hash, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, team)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	return nil
}

// GetByID retrieves a team by its ID
func (r *teamRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	query := `
		SELECT id, session_id, name, code_hash, created_at
		FROM teams
		WHERE id = $1`

	var team domain.Team
	err := r.db.GetContext(ctx, &team, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team by id: %w", err)
	}

	return &team, nil
}

// ListBySession retrieves all teams registered on a session
func (r *teamRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Team, error) {
	query := `
		SELECT id, session_id, name, code_hash, created_at
		FROM teams
		WHERE session_id = $1
		ORDER BY created_at ASC`

	var teams []*domain.Team
	err := r.db.SelectContext(ctx, &teams, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams by session: %w", err)
	}

	return teams, nil
}

// Delete removes a team from the database by ID
func (r *teamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
