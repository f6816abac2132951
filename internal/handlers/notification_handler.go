package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/middleware"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type NotificationHandler struct {
	notifications repositories.NotificationRepository
}

func NewNotificationHandler(notifications repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// HandleListMine handles GET /notifications/me
func (h *NotificationHandler) HandleListMine(c *fiber.Ctx) error {
	actor := middleware.Actor(c)

	notifications, err := h.notifications.ListByUser(actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

// HandleMarkRead handles PUT /notifications/:id/read
func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID format",
		})
	}

	notification, err := h.notifications.FindByID(notificationID)
	if err != nil {
		return respondError(c, err)
	}

	actor := middleware.Actor(c)
	if err := services.CanPerform(actor, services.TransitionReadNotification, services.Ownership{RecipientID: notification.UserID}); err != nil {
		return respondError(c, err)
	}

	if err := h.notifications.MarkRead(notificationID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "marked as read"})
}
