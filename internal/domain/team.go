package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team is a submitting team registered on one session, identified only by a
// hashed access code.
type Team struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID uuid.UUID `json:"session_id" db:"session_id"`
	Name      string    `json:"name" db:"name"`
	CodeHash  string    `json:"-" db:"code_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
