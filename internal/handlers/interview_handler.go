package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/middleware"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type InterviewHandler struct {
	pipeline services.PipelineService
}

func NewInterviewHandler(pipeline services.PipelineService) *InterviewHandler {
	return &InterviewHandler{pipeline: pipeline}
}

// HandleSchedule handles POST /interviews
func (h *InterviewHandler) HandleSchedule(c *fiber.Ctx) error {
	var req models.ScheduleInterviewRequest
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
	interviewerID, err := uuid.Parse(req.InterviewerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interviewer_id format",
		})
	}
	if req.ScheduledAt.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "scheduled_at is required",
		})
	}

	interview, err := h.pipeline.ScheduleInterview(
		c.Context(),
		middleware.Actor(c),
		applicationID,
		interviewerID,
		req.ScheduledAt,
		req.MeetingLink,
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(interview)
}

// HandleComplete handles PUT /interviews/:id/complete
func (h *InterviewHandler) HandleComplete(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.CompleteInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	interview, err := h.pipeline.CompleteInterview(c.Context(), middleware.Actor(c), interviewID, req.Score, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(interview)
}

// HandleCancel handles PUT /interviews/:id/cancel
func (h *InterviewHandler) HandleCancel(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	if err := h.pipeline.CancelInterview(c.Context(), middleware.Actor(c), interviewID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "interview cancelled"})
}
