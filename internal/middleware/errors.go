package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// JSONError renders every handler error as a structured payload so clients
// always receive a machine-readable detail string.
func JSONError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
