package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPair is what every successful login or rotation returns.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthPayload is the outcome of a successful credential verification and the
// input to token issuance.
type AuthPayload struct {
	Sub       string
	Role      Role
	SessionID uuid.UUID
	Name      string
}

// Claims is the access-token claim set: sub, role, sessionId, name, iat, exp.
type Claims struct {
	jwt.RegisteredClaims
	Role      Role   `json:"role"`
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
}
