package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/pkg/jwt"
)

func guardedApp(t *testing.T, signer *jwt.TokenService, allowed ...domain.Role) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Get("/protected", Authenticate(signer), RequireRole(allowed...), func(c *fiber.Ctx) error {
		claims := ClaimsFromCtx(c)
		require.NotNil(t, claims)
		return c.JSON(fiber.Map{"sub": claims.Subject})
	})
	return app
}

func signFor(t *testing.T, signer *jwt.TokenService, role domain.Role) string {
	t.Helper()
	token, err := signer.SignAccessToken(domain.AuthPayload{
		Sub:       "subject-1",
		Role:      role,
		SessionID: uuid.New(),
		Name:      "Someone",
	})
	require.NoError(t, err)
	return token
}

func get(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthenticateRejectsBadHeaders(t *testing.T) {
	signer, err := jwt.NewTokenService("test-secret", 15*time.Minute, "arbitr")
	require.NoError(t, err)
	app := guardedApp(t, signer, domain.RoleAdmin)

	cases := map[string]string{
		"no header":      "",
		"no scheme":      "token-without-scheme",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"empty token":    "Bearer ",
		"garbage token":  "Bearer not.a.jwt",
		"lowercase bear": "bearer something",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp := get(t, app, header)
			defer resp.Body.Close()
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var envelope domain.AuthError
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
			assert.Equal(t, "UNAUTHORIZED", envelope.Code)
		})
	}
}

func TestAuthenticateRejectsForeignSignature(t *testing.T) {
	signer, err := jwt.NewTokenService("test-secret", 15*time.Minute, "arbitr")
	require.NoError(t, err)
	forger, err := jwt.NewTokenService("other-secret", 15*time.Minute, "arbitr")
	require.NoError(t, err)
	app := guardedApp(t, signer, domain.RoleAdmin)

	resp := get(t, app, "Bearer "+signFor(t, forger, domain.RoleAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	signer, err := jwt.NewTokenService("test-secret", 15*time.Minute, "arbitr")
	require.NoError(t, err)
	stale, err := jwt.NewTokenService("test-secret", -time.Minute, "arbitr")
	require.NoError(t, err)
	app := guardedApp(t, signer, domain.RoleAdmin)

	resp := get(t, app, "Bearer "+signFor(t, stale, domain.RoleAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	signer, err := jwt.NewTokenService("test-secret", 15*time.Minute, "arbitr")
	require.NoError(t, err)
	app := guardedApp(t, signer, domain.RoleAdmin, domain.RoleEvaluator)

	// Allowed roles pass through
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleEvaluator} {
		resp := get(t, app, "Bearer "+signFor(t, signer, role))
		assert.Equal(t, http.StatusOK, resp.StatusCode, "role %s should pass", role)
		resp.Body.Close()
	}

	// A valid token with the wrong role is a 403, not a 401
	resp := get(t, app, "Bearer "+signFor(t, signer, domain.RoleTeam))
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var envelope domain.AuthError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "FORBIDDEN", envelope.Code)
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	app := fiber.New()
	// Misconfigured chain: the guard runs without claims in scope
	app.Get("/protected", RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
