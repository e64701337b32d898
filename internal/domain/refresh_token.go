package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one link in a rotation chain. The token column holds the
// opaque random secret itself and is the primary key. FamilyID ties every
// descendant of one login together so a replayed stale token can take the
// whole chain down with it. A row with a non-nil ConsumedAt has been redeemed
// and must never be redeemed again.
type RefreshToken struct {
	Token      string     `json:"-" db:"token"`
	FamilyID   uuid.UUID  `json:"family_id" db:"family_id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Role       Role       `json:"role" db:"role"`
	SessionID  *uuid.UUID `json:"session_id,omitempty" db:"session_id"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty" db:"consumed_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
