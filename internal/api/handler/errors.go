package handler

import (
	"complainthub/backend/internal/complaint"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func statusFor(kind complaint.Kind) int {
	switch kind {
	case complaint.KindValidation, complaint.KindAttachment:
		return http.StatusBadRequest
	case complaint.KindAuthorization:
		return http.StatusForbidden
	case complaint.KindNotFound:
		return http.StatusNotFound
	case complaint.KindPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message": ..., "fields": ...}. Causes of unexpected
// errors are logged and never sent to the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ce *complaint.Error
	if !errors.As(err, &ce) {
		ce = &complaint.Error{Kind: complaint.KindUnexpected, Message: "Server error", Err: err}
	}

	status := statusFor(ce.Kind)
	if status == http.StatusInternalServerError {
		h.Log.WithError(err).WithField("request_id", requestID(c)).Error("request failed")
	}

	body := gin.H{"message": ce.Message}
	if len(ce.Fields) > 0 {
		body["fields"] = ce.Fields
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}
