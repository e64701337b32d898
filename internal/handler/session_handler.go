package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/handler/middleware"
	"github.com/Nicolas78240/Arbitr/internal/repository"
	"github.com/Nicolas78240/Arbitr/pkg/hash"
	"github.com/Nicolas78240/Arbitr/pkg/validator"
)

type SessionHandler struct {
	sessions   repository.SessionRepository
	validator  *validator.Validator
	codeLength int
}

func NewSessionHandler(sessions repository.SessionRepository, validator *validator.Validator, codeLength int) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		validator:  validator,
		codeLength: codeLength,
	}
}

type createSessionRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT ACTIVE CLOSED"`
}

// Create creates a session in DRAFT and returns the generated admin code.
// The plaintext code appears in this response and nowhere else.
// POST /sessions
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	adminCode, err := hash.GenerateCode(h.codeLength)
	if err != nil {
		return err
	}
	codeHash, err := hash.HashCode(adminCode)
	if err != nil {
		return err
	}

	now := time.Now()
	session := &domain.Session{
		ID:            uuid.New(),
		Name:          req.Name,
		Status:        domain.SessionStatusDraft,
		AdminCodeHash: codeHash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.sessions.Create(c.Context(), session); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session":   session,
		"adminCode": adminCode,
	})
}

// List returns all sessions, newest first
// GET /sessions
func (h *SessionHandler) List(c *fiber.Ctx) error {
	sessions, err := h.sessions.List(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"sessions": sessions,
	})
}

// Get returns one session. The caller must be the admin of that session.
// GET /sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id, err := sessionIDFromPath(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := requireOwnSession(c, id); err != nil {
		return writeError(c, err)
	}

	session, err := h.sessions.GetByID(c.Context(), id)
	if err != nil {
		return sessionRepoError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(session)
}

// UpdateStatus moves a session between DRAFT, ACTIVE and CLOSED
// PATCH /sessions/:id/status
func (h *SessionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := sessionIDFromPath(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := requireOwnSession(c, id); err != nil {
		return writeError(c, err)
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.sessions.UpdateStatus(c.Context(), id, domain.SessionStatus(req.Status)); err != nil {
		return sessionRepoError(c, err)
	}

	session, err := h.sessions.GetByID(c.Context(), id)
	if err != nil {
		return sessionRepoError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(session)
}

// Delete removes a session
// DELETE /sessions/:id
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	id, err := sessionIDFromPath(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := requireOwnSession(c, id); err != nil {
		return writeError(c, err)
	}

	if err := h.sessions.Delete(c.Context(), id); err != nil {
		return sessionRepoError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Session deleted",
	})
}

// sessionIDFromPath parses the :id path segment. An unparseable id behaves
// like a missing session rather than leaking parser details.
func sessionIDFromPath(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrSessionNotFound
	}
	return id, nil
}

// requireOwnSession checks that the verified admin claims belong to the
// session being managed. Admin subjects are "admin:<sessionID>".
func requireOwnSession(c *fiber.Ctx, sessionID uuid.UUID) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return domain.ErrUnauthorized
	}
	if claims.SessionID != sessionID.String() {
		return domain.ErrForbidden
	}
	return nil
}

func sessionRepoError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return writeError(c, domain.ErrSessionNotFound)
	}
	return err
}
