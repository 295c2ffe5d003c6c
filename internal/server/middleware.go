package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

// playerIDKey is the fiber.Ctx locals key holding the caller's player id.
const playerIDKey = "playerID"

// EnsurePlayerID requires a player id from the X-Player-ID header or, for
// browsers opening websockets, the playerId query parameter.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(playerIDKey).(string); ok {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "player id is required")
		}

		// Header and query values alias the request buffer, which fasthttp
		// reuses once the handler returns. Seats outlive the request.
		c.Locals(playerIDKey, utils.CopyString(playerID))
		return c.Next()
	}
}

// WebSocketUpgrade rejects plain HTTP requests to websocket endpoints.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if c.Params("id") == "" {
			return fiber.NewError(fiber.StatusBadRequest, "game id is required")
		}
		return c.Next()
	}
}

// playerID returns the id stored by EnsurePlayerID.
func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals(playerIDKey).(string)
	return id
}
