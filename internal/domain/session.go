package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of an evaluation session.
type SessionStatus string

const (
	SessionStatusDraft  SessionStatus = "DRAFT"
	SessionStatusActive SessionStatus = "ACTIVE"
	SessionStatusClosed SessionStatus = "CLOSED"
)

// Valid reports whether s is a known lifecycle state.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusDraft, SessionStatusActive, SessionStatusClosed:
		return true
	}
	return false
}

// Session is a time-boxed evaluation round. The admin code is stored only as
// an argon2id hash; the plaintext exists once, in the create response.
type Session struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	Status        SessionStatus `json:"status" db:"status"`
	AdminCodeHash string        `json:"-" db:"admin_code_hash"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}
