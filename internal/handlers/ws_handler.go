package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-pipeline/internal/middleware"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type WSHandler struct {
	hub    *services.Hub
	logger *zap.Logger
}

func NewWSHandler(hub *services.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Upgrade gates the route on a websocket upgrade request and stashes the
// resolved actor for the connection handler.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("ws_actor", middleware.Actor(c))
	return c.Next()
}

// HandleConnection registers the session in the hub and holds it open until
// the client goes away. The server never reads meaningful data; the read
// loop only detects disconnects.
func (h *WSHandler) HandleConnection(conn *websocket.Conn) {
	actor, ok := conn.Locals("ws_actor").(*models.User)
	if !ok || actor == nil {
		conn.Close()
		return
	}

	unregister := h.hub.Register(actor.ID, conn)
	defer unregister()

	h.logger.Debug("websocket connected", zap.String("user_id", actor.ID.String()))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
