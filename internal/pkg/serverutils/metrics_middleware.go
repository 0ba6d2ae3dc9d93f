package serverutils

import (
	"strconv"
	"time"

	"asset-management-be/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records request count and latency per matched route.
// Register it before ErrorHandlerMiddleware so the final status is seen.
func MetricsMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			status = StatusOf(err)
		}
		route := ctx.Route().Path
		if route == "" {
			route = "unmatched"
		}

		metrics.RecordRequest(ctx.Method(), route, strconv.Itoa(status), time.Since(start))
		return err
	}
}
