package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Nicolas78240/Arbitr/internal/domain"
)

// writeError serializes a typed AuthError as the wire envelope
// {error, message, statusCode}. Anything else is re-raised so the Fiber
// error handler logs it and answers 500 — storage outages are never
// disguised as credential failures.
func writeError(c *fiber.Ctx, err error) error {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return c.Status(authErr.StatusCode).JSON(authErr)
	}
	return err
}

// badRequest answers a request-shape problem with the standard envelope.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(domain.NewAuthError(
		"VALIDATION_ERROR", message, http.StatusBadRequest,
	))
}
