package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/common"
)

// respondError maps domain error codes to HTTP statuses. Anything without a
// code is an internal error.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal error"

	var domainErr *common.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
		switch domainErr.Code {
		case common.CodeForbidden:
			status = fiber.StatusForbidden
		case common.CodeNotFound:
			status = fiber.StatusNotFound
		case common.CodeInvalidTransition:
			status = fiber.StatusUnprocessableEntity
		case common.CodeConflict:
			status = fiber.StatusConflict
		case common.CodeValidation:
			status = fiber.StatusBadRequest
		case common.CodeExternalUnavailable:
			status = fiber.StatusBadGateway
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  string(common.CodeOf(err)),
	})
}
