package serverutils

import (
	"errors"

	"asset-management-be/internal/pkg/logger"
	"asset-management-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:          fiber.StatusBadRequest,
	apperror.KindPermissionDenied:    fiber.StatusForbidden,
	apperror.KindReferentialConflict: fiber.StatusConflict,
	apperror.KindNotFound:            fiber.StatusNotFound,
	apperror.KindAuthentication:      fiber.StatusUnauthorized,
	apperror.KindTooManyAttempts:     fiber.StatusTooManyRequests,
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	if status, ok := statusByKind[apperror.KindOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware renders any error returned down the chain as the
// standard envelope. Internal errors are logged and never echoed.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := StatusOf(err)
		res := ErrorResponse(status, err.Error())

		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			res.Errors = appErr.Fields
		}
		if status == fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
			res.Message = "Internal server error"
		}

		return ctx.Status(status).JSON(res)
	}
}
