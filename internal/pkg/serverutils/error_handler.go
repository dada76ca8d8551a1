package serverutils

import (
	"errors"

	"workspace-disputes-be/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps errors bubbling out of controllers to HTTP
// responses. Typed apperr kinds map to their status; anything else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "Internal server error"

		if kind, ok := apperr.KindOf(err); ok {
			switch kind {
			case apperr.KindNotFound:
				status = fiber.StatusNotFound
			case apperr.KindBadRequest:
				status = fiber.StatusBadRequest
			case apperr.KindForbidden:
				status = fiber.StatusForbidden
			case apperr.KindConflict:
				status = fiber.StatusConflict
			}
			message = err.Error()
		} else {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
				message = fiberErr.Message
			}
		}

		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}
