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

type evaluatorRepository struct {
	db *sqlx.DB
}

// NewEvaluatorRepository creates a new PostgreSQL evaluator repository
func NewEvaluatorRepository(db *sqlx.DB) repository.EvaluatorRepository {
	return &evaluatorRepository{db: db}
}

// Create inserts a new evaluator into the database
func (r *evaluatorRepository) Create(ctx context.Context, evaluator *domain.Evaluator) error {
	query := `
		INSERT INTO evaluators (
			id, session_id, name, code_hash, created_at
		) VALUES (
			:id, :session_id, :name, :code_hash, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, evaluator)
	if err != nil {
		return fmt.Errorf("failed to create evaluator: %w", err)
	}

	return nil
}

// GetByID retrieves an evaluator by its ID
func (r *evaluatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Evaluator, error) {
	query := `
		SELECT id, session_id, name, code_hash, created_at
		FROM evaluators
		WHERE id = $1`

	var evaluator domain.Evaluator
	err := r.db.GetContext(ctx, &evaluator, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get evaluator by id: %w", err)
	}

	return &evaluator, nil
}

// ListBySession retrieves all evaluators registered on a session
func (r *evaluatorRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Evaluator, error) {
	query := `
		SELECT id, session_id, name, code_hash, created_at
		FROM evaluators
		WHERE session_id = $1
		ORDER BY created_at ASC`

	var evaluators []*domain.Evaluator
	err := r.db.SelectContext(ctx, &evaluators, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluators by session: %w", err)
	}

	return evaluators, nil
}

// Delete removes an evaluator from the database by ID
func (r *evaluatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM evaluators WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete evaluator: %w", err)
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
