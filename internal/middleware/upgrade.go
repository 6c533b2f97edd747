package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GameSocket admits websocket upgrades for games that exist. Plain HTTP
// requests get 426 and unknown games get 404 before any upgrade happens.
// The client id set by EnsureClientID and the gameId route param are
// copied onto the socket by the websocket handler.
func GameSocket(lookup func(gameID string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if err := lookup(c.Params("gameId")); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Next()
	}
}
