package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/middleware"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type OfferHandler struct {
	pipeline services.PipelineService
}

func NewOfferHandler(pipeline services.PipelineService) *OfferHandler {
	return &OfferHandler{pipeline: pipeline}
}

// HandleMake handles POST /offers
func (h *OfferHandler) HandleMake(c *fiber.Ctx) error {
	var req models.MakeOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Position == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "position is required",
		})
	}
	if req.Salary <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "salary must be positive",
		})
	}

	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application_id format",
		})
	}

	offer, err := h.pipeline.MakeOffer(
		c.Context(),
		middleware.Actor(c),
		applicationID,
		req.Position,
		req.Salary,
		req.StartDate,
		req.Note,
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(offer)
}

// HandleRespond handles PUT /offers/:id/respond
func (h *OfferHandler) HandleRespond(c *fiber.Ctx) error {
	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid offer ID format",
		})
	}

	var req models.RespondOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Decision != "accept" && req.Decision != "reject" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "decision must be accept or reject",
		})
	}

	offer, err := h.pipeline.RespondOffer(c.Context(), middleware.Actor(c), offerID, req.Decision == "accept")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(offer)
}
