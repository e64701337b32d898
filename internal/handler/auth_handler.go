package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/service"
	"github.com/Nicolas78240/Arbitr/pkg/validator"
)

type AuthHandler struct {
	registry  *service.StrategyRegistry
	tokens    *service.TokenService
	validator *validator.Validator
}

func NewAuthHandler(registry *service.StrategyRegistry, tokens *service.TokenService, validator *validator.Validator) *AuthHandler {
	return &AuthHandler{
		registry:  registry,
		tokens:    tokens,
		validator: validator,
	}
}

type adminLoginRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
	AdminCode string `json:"adminCode" validate:"required"`
}

type evaluatorLoginRequest struct {
	SessionID     string `json:"sessionId" validate:"required,uuid"`
	EvaluatorCode string `json:"evaluatorCode" validate:"required"`
}

type teamLoginRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
	TeamCode  string `json:"teamCode" validate:"required"`
}

// LoginAdmin handles administrator login
// POST /auth/admin
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	return h.login(c, service.StrategyAdminCode, req.SessionID, req.AdminCode)
}

// LoginEvaluator handles evaluator login
// POST /auth/evaluator
func (h *AuthHandler) LoginEvaluator(c *fiber.Ctx) error {
	var req evaluatorLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	return h.login(c, service.StrategyEvaluatorCode, req.SessionID, req.EvaluatorCode)
}

// LoginTeam handles team login
// POST /auth/team
func (h *AuthHandler) LoginTeam(c *fiber.Ctx) error {
	var req teamLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	return h.login(c, service.StrategyTeamCode, req.SessionID, req.TeamCode)
}

func (h *AuthHandler) login(c *fiber.Ctx, strategyName, sessionID, code string) error {
	strategy, err := h.registry.Resolve(strategyName)
	if err != nil {
		// Wiring bug, not a user error
		return err
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return writeError(c, domain.ErrSessionNotFound)
	}

	payload, err := strategy.Authenticate(c.Context(), service.Credentials{
		SessionID: id,
		Code:      code,
	})
	if err != nil {
		return writeError(c, err)
	}

	pair, err := h.tokens.GenerateTokens(c.Context(), *payload)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

// Refresh handles refresh token rotation
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}

	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return writeError(c, domain.ErrMissingToken)
	}

	pair, err := h.tokens.Rotate(c.Context(), req.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

// Logout discards a refresh token. It never fails from the caller's view:
// an absent or already-invalid token still means the session is gone.
// POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}

	if err := c.BodyParser(&req); err == nil && req.RefreshToken != "" {
		if err := h.tokens.Revoke(c.Context(), req.RefreshToken); err != nil {
			return err
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}
