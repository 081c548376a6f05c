package handler

import (
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/eventhub"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServeEvents upgrades GET /api/complaints/events to a WebSocket streaming the
// lifecycle events the actor may see.
func (h *Handler) ServeEvents(c *gin.Context) {
	actor := actorFrom(c)
	if !h.Complaints.Policy.RoleMay(actor, complaint.ActionView) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.Log.WithError(err).WithField("request_id", requestID(c)).Warn("websocket upgrade failed")
		return
	}

	client := eventhub.NewWebSocketClient(actor, h.Complaints.Policy, conn, h.Hub, h.Log.WithField("user", actor.ID))
	h.Hub.Register(client)
	client.Run()
}
