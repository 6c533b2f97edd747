package middleware

import (
	"time"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger writes one entry per request once the handler chain returns.
func RequestLogger(logger log.Interface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := logger.WithFields(log.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"elapsed": time.Since(start).String(),
		})
		if id, ok := c.Locals(ClientIDKey).(string); ok {
			entry = entry.WithField("client", id)
		}
		if err != nil {
			entry.WithError(err).Warn("request failed")
			return err
		}
		entry.Debug("request")
		return nil
	}
}
