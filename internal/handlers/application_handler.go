package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/middleware"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type ApplicationHandler struct {
	pipeline services.PipelineService
}

func NewApplicationHandler(pipeline services.PipelineService) *ApplicationHandler {
	return &ApplicationHandler{pipeline: pipeline}
}

// HandleApply handles POST /applications
func (h *ApplicationHandler) HandleApply(c *fiber.Ctx) error {
	var req models.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_id is required",
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_id format",
		})
	}

	app, err := h.pipeline.Apply(c.Context(), middleware.Actor(c), jobID, req.CVReference)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

// HandleListMine handles GET /applications/me
func (h *ApplicationHandler) HandleListMine(c *fiber.Ctx) error {
	views, err := h.pipeline.ListMine(middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"applications": views})
}

// HandleListByJob handles GET /applications/job/:jobId
func (h *ApplicationHandler) HandleListByJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	apps, err := h.pipeline.ListByJob(middleware.Actor(c), jobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"applications": apps})
}

// HandleOverrideStatus handles PUT /applications/:id/status
func (h *ApplicationHandler) HandleOverrideStatus(c *fiber.Ctx) error {
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application ID format",
		})
	}

	var req models.OverrideStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	app, err := h.pipeline.OverrideStatus(c.Context(), middleware.Actor(c), applicationID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(app)
}
