package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/service"
)

// ErrorHandlerMiddleware maps service-layer errors onto HTTP statuses.
// Validation problems are the caller's fault and are not retried; anything
// else returns 500 so Stripe's webhook delivery keeps retrying events we
// failed to process.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErr.Error()))
		}

		var reconciliationErr *service.ReconciliationError
		if errors.As(err, &reconciliationErr) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(reconciliationErr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
