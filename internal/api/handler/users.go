package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me handles GET /api/users/me.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Complaints.Profile(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
