// handlers/errors.go
package handlers

import (
	"errors"

	"nird-resistance/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const serverErrorMessage = "Server Error"

// ErrorHandler maps service errors onto the {success:false, error} envelope.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ve *services.ValidationError
		var fe *fiber.Error

		switch {
		case errors.As(err, &ve):
			body := fiber.Map{"success": false, "error": ve.Error()}
			if len(ve.Fields) > 0 {
				body["fields"] = ve.Fields
			}
			return c.Status(fiber.StatusBadRequest).JSON(body)
		case errors.Is(err, services.ErrValidation):
			return fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrDuplicateEmail):
			return fail(c, fiber.StatusConflict, services.ErrDuplicateEmail.Error())
		case errors.Is(err, services.ErrNotFound):
			return fail(c, fiber.StatusNotFound, services.ErrNotFound.Error())
		case errors.As(err, &fe):
			if fe.Code >= fiber.StatusInternalServerError {
				logger.Error("fiber error", zap.Error(err), zap.String("path", c.Path()))
				return fail(c, fe.Code, serverErrorMessage)
			}
			return fail(c, fe.Code, fe.Message)
		default:
			logger.Error("❌ unhandled error", zap.Error(err), zap.String("path", c.Path()))
			return fail(c, fiber.StatusInternalServerError, serverErrorMessage)
		}
	}
}

// NotFound is the catch-all for unknown routes.
func NotFound(c *fiber.Ctx) error {
	return fail(c, fiber.StatusNotFound, "Route not found")
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
