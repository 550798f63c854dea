package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// UserIDLocalKey is the fiber local under which the auth middleware stores the caller id.
const UserIDLocalKey = "user_id"

// RequestLogger logs each request and records it in metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		// Method and path alias fasthttp's request buffer, which is reused after the
		// handler returns; label values outlive it.
		method := utils.CopyString(c.Method())
		route := utils.CopyString(c.Route().Path)
		status := c.Response().StatusCode()
		metrics.RecordRequest(route, method, status, latency)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if uid, ok := c.Locals(UserIDLocalKey).(int64); ok {
			fields = append(fields, zap.Int64("user_id", uid))
		}

		switch {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return err
	}
}
