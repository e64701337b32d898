package domain

import (
	"time"

	"github.com/google/uuid"
)

// Evaluator is a juror registered on one session, identified only by a
// hashed access code.
type Evaluator struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID uuid.UUID `json:"session_id" db:"session_id"`
	Name      string    `json:"name" db:"name"`
	CodeHash  string    `json:"-" db:"code_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
