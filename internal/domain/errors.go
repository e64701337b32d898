package domain

import "net/http"

// AuthError is a user-facing authentication failure. Handlers serialize it
// as-is; anything that is not an AuthError surfaces as a 500.
type AuthError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError builds a typed authentication failure.
func NewAuthError(code, message string, statusCode int) *AuthError {
	return &AuthError{Code: code, Message: message, StatusCode: statusCode}
}

var (
	ErrSessionNotFound = NewAuthError("SESSION_NOT_FOUND", "Session not found", http.StatusNotFound)

	ErrSessionNotActive            = NewAuthError("SESSION_NOT_ACTIVE", "Session is not active", http.StatusForbidden)
	ErrSessionNotActiveSubmissions = NewAuthError("SESSION_NOT_ACTIVE", "Session is not active for submissions", http.StatusForbidden)

	ErrInvalidAdminCode     = NewAuthError("INVALID_CODE", "Invalid admin code", http.StatusUnauthorized)
	ErrInvalidEvaluatorCode = NewAuthError("INVALID_CODE", "Invalid evaluator code", http.StatusUnauthorized)
	ErrInvalidTeamCode      = NewAuthError("INVALID_CODE", "Invalid team code", http.StatusUnauthorized)

	ErrMissingToken        = NewAuthError("MISSING_TOKEN", "Refresh token is required", http.StatusBadRequest)
	ErrInvalidRefreshToken = NewAuthError("INVALID_REFRESH_TOKEN", "Invalid or expired refresh token", http.StatusUnauthorized)

	ErrUnauthorized = NewAuthError("UNAUTHORIZED", "Invalid or expired token", http.StatusUnauthorized)
	ErrForbidden    = NewAuthError("FORBIDDEN", "Insufficient permissions", http.StatusForbidden)
)
