package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/example/zenko/internal/apperr"
)

// ErrorHandler translates application errors into the JSON error envelope.
// fiber.NewError responses from handlers pass through with their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if typed := apperr.As(err); typed != nil {
		body := fiber.Map{
			"code":    typed.Code(),
			"message": typed.Message(),
		}
		if fields := typed.Fields(); len(fields) > 0 {
			body["fields"] = fields
		}
		return c.Status(apperr.HTTPStatus(typed.Code())).JSON(fiber.Map{
			"success": false,
			"error":   body,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"code":    "HTTP_ERROR",
				"message": fiberErr.Message,
			},
		})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    apperr.CodeInternal,
			"message": "internal server error",
		},
	})
}
