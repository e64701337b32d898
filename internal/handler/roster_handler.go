package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/repository"
	"github.com/Nicolas78240/Arbitr/pkg/hash"
	"github.com/Nicolas78240/Arbitr/pkg/validator"
)

// RosterHandler manages the evaluators and teams registered on a session.
// Creating a member generates its access code; the plaintext is returned in
// the create response only, the store keeps nothing but the hash.
type RosterHandler struct {
	evaluators repository.EvaluatorRepository
	teams      repository.TeamRepository
	validator  *validator.Validator
	codeLength int
}

func NewRosterHandler(
	evaluators repository.EvaluatorRepository,
	teams repository.TeamRepository,
	validator *validator.Validator,
	codeLength int,
) *RosterHandler {
	return &RosterHandler{
		evaluators: evaluators,
		teams:      teams,
		validator:  validator,
		codeLength: codeLength,
	}
}

type createMemberRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateEvaluator registers a juror on the session
// POST /sessions/:id/evaluators
func (h *RosterHandler) CreateEvaluator(c *fiber.Ctx) error {
	sessionID, err := sessionIDFromPath(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := requireOwnSession(c, sessionID); err != nil {
		return writeError(c, err)
	}

	var req createMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	code, codeHash, err := h.newCode()
	if err != nil {
		return err
	}

	evaluator := &domain.Evaluator{
		ID:        uuid.New(),
		SessionID: sessionID,
		Name:      req.Name,
		CodeHash:  codeHash,
		CreatedAt: time.Now(),
	}

	if err := h.evaluators.Create(c.Context(), evaluator); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"evaluator": evaluator,
		"code":      code,
	})
}

// ListEvaluators returns the session's jury roster
// GET /sessions/:id/evaluators
func (h *RosterHandler) ListEvaluators(c *fiber.Ctx) error {
	sessionID, err := sessionIDFromPath(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := requireOwnSession(c, sessionID); err != nil {
		return writeError(c, err)
	}

	evaluators, err := h.evaluators.ListBySession(c.Context(), sessionID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"evaluators": evaluators,
	})
}

// DeleteEvaluator removes a juror from the session
// DELETE /sessions/:id/evaluators/:evaluatorId
func (h *RosterHandler) DeleteEvaluator(c *fiber.Ctx) error {
	sessionID, err := sessionIDFromPath(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := requireOwnSession(c, sessionID); err != nil {
		return writeError(c, err)
	}

	evaluatorID, err := uuid.Parse(c.Params("evaluatorId"))
	if err != nil {
		return memberNotFound(c, "Evaluator")
	}

	// The member must actually belong to the admin's session
	evaluator, err := h.evaluators.GetByID(c.Context(), evaluatorID)
	if err != nil || evaluator.SessionID != sessionID {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return memberNotFound(c, "Evaluator")
	}

	if err := h.evaluators.Delete(c.Context(), evaluatorID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Evaluator deleted",
	})
}

// CreateTeam registers a submitting team on the session
// POST /sessions/:id/teams
func (h *RosterHandler) CreateTeam(c *fiber.Ctx) error {
	sessionID, err := sessionIDFromPath(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := requireOwnSession(c, sessionID); err != nil {
		return writeError(c, err)
	}

	var req createMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	code, codeHash, err := h.newCode()
	if err != nil {
		return err
	}

	team := &domain.Team{
		ID:        uuid.New(),
		SessionID: sessionID,
		Name:      req.Name,
		CodeHash:  codeHash,
		CreatedAt: time.Now(),
	}

	if err := h.teams.Create(c.Context(), team); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"team": team,
		"code": code,
	})
}

// ListTeams returns the session's team roster
// GET /sessions/:id/teams
func (h *RosterHandler) ListTeams(c *fiber.Ctx) error {
	sessionID, err := sessionIDFromPath(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := requireOwnSession(c, sessionID); err != nil {
		return writeError(c, err)
	}

	teams, err := h.teams.ListBySession(c.Context(), sessionID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"teams": teams,
	})
}

// DeleteTeam removes a team from the session
// DELETE /sessions/:id/teams/:teamId
func (h *RosterHandler) DeleteTeam(c *fiber.Ctx) error {
	sessionID, err := sessionIDFromPath(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := requireOwnSession(c, sessionID); err != nil {
		return writeError(c, err)
	}

	teamID, err := uuid.Parse(c.Params("teamId"))
	if err != nil {
		return memberNotFound(c, "Team")
	}

	team, err := h.teams.GetByID(c.Context(), teamID)
	if err != nil || team.SessionID != sessionID {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return memberNotFound(c, "Team")
	}

	if err := h.teams.Delete(c.Context(), teamID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Team deleted",
	})
}

func (h *RosterHandler) newCode() (code, codeHash string, err error) {
	code, err = hash.GenerateCode(h.codeLength)
	if err != nil {
		return "", "", err
	}
	codeHash, err = hash.HashCode(code)
	if err != nil {
		return "", "", err
	}
	return code, codeHash, nil
}

func memberNotFound(c *fiber.Ctx, kind string) error {
	return writeError(c, domain.NewAuthError("NOT_FOUND", kind+" not found", http.StatusNotFound))
}
