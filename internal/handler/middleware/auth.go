package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/pkg/jwt"
)

// ClaimsKey is where Authenticate stashes the verified claims in the
// request-scoped Locals.
const ClaimsKey = "claims"

// Authenticate validates the Bearer access token and stores the decoded
// claims for downstream handlers. Missing, malformed, expired and badly
// signed tokens all short-circuit to the same 401.
func Authenticate(tokenService *jwt.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return unauthorized(c)
		}

		claims, err := tokenService.ValidateToken(parts[1])
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(ClaimsKey, claims)

		return c.Next()
	}
}

// RequireRole allows the request through only when the verified role claim
// is one of allowed. It must run after Authenticate: a role claim is only
// ever read from signature-verified claims.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(ClaimsKey).(*domain.Claims)
		if !ok {
			return unauthorized(c)
		}

		for _, role := range allowed {
			if claims.Role == role {
				return c.Next()
			}
		}

		return c.Status(domain.ErrForbidden.StatusCode).JSON(domain.ErrForbidden)
	}
}

// ClaimsFromCtx returns the verified claims set by Authenticate, or nil.
func ClaimsFromCtx(c *fiber.Ctx) *domain.Claims {
	claims, _ := c.Locals(ClaimsKey).(*domain.Claims)
	return claims
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(domain.ErrUnauthorized.StatusCode).JSON(domain.ErrUnauthorized)
}
