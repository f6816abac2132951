package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/middleware"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type ChallengeHandler struct {
	pipeline services.PipelineService
}

func NewChallengeHandler(pipeline services.PipelineService) *ChallengeHandler {
	return &ChallengeHandler{pipeline: pipeline}
}

// HandleSend handles POST /challenges/send
func (h *ChallengeHandler) HandleSend(c *fiber.Ctx) error {
	var req models.SendChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application_id format",
		})
	}
	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid challenge_id format",
		})
	}

	app, err := h.pipeline.SendChallenge(c.Context(), middleware.Actor(c), applicationID, challengeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(app)
}

// HandleSubmit handles POST /challenges/submit
func (h *ChallengeHandler) HandleSubmit(c *fiber.Ctx) error {
	var req models.SubmitChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code is required",
		})
	}
	if req.Language == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "language is required",
		})
	}

	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application_id format",
		})
	}

	submission, err := h.pipeline.SubmitChallenge(
		c.Context(),
		middleware.Actor(c),
		applicationID,
		req.Code,
		req.Language,
		req.ProctorEvents,
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(submission)
}
