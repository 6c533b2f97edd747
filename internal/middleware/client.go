package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ClientIDKey is the locals key holding the id of the calling client.
const ClientIDKey = "clientID"

// EnsureClientID identifies the caller by the X-Client-ID header or the
// clientId query parameter. Clients that send neither get a fresh id, echoed
// back in the response header so they can reuse it.
func EnsureClientID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check if clientID is already set
		if c.Locals(ClientIDKey) != nil {
			return c.Next()
		}

		// Check header first
		clientID := c.Get("X-Client-ID")
		if clientID == "" {
			clientID = c.Query("clientId")
		}
		if clientID == "" {
			clientID = uuid.New().String()
		}

		// Store in context for this request
		c.Locals(ClientIDKey, clientID)
		c.Set("X-Client-ID", clientID)
		return c.Next()
	}
}
