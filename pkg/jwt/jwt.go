package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Nicolas78240/Arbitr/internal/domain"
)

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrEmptySecret          = errors.New("signing secret must not be empty")
)

// TokenService signs and verifies access tokens with a process-wide HMAC
// secret. Access tokens are self-contained; refresh tokens never pass
// through here, they are opaque database rows.
type TokenService struct {
	secret       []byte
	accessExpiry time.Duration
	issuer       string
}

func NewTokenService(secret string, accessExpiry time.Duration, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &TokenService{
		secret:       []byte(secret),
		accessExpiry: accessExpiry,
		issuer:       issuer,
	}, nil
}

// SignAccessToken mints a signed access token carrying exactly
// sub, role, sessionId, name, iat and exp (plus the issuer).
func (s *TokenService) SignAccessToken(payload domain.AuthPayload) (string, error) {
	now := time.Now()

	claims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   payload.Sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
		},
		Role:      payload.Role,
		SessionID: payload.SessionID.String(),
		Name:      payload.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies signature and expiry and returns the decoded claims.
// The role claim must never be trusted before this call succeeds.
func (s *TokenService) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// AccessExpiry returns the configured access-token lifetime.
func (s *TokenService) AccessExpiry() time.Duration {
	return s.accessExpiry
}
