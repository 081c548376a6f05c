package handler

import (
	"complainthub/backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
)

// RouterOptions configures the optional parts of the router.
type RouterOptions struct {
	// Limiter throttles write routes per actor. Nil disables rate limiting.
	Limiter *limiter.Limiter
	// MetricsPath exposes Prometheus metrics when non-empty.
	MetricsPath string
	// UploadDir is served statically under Handler.URLPrefix when non-empty.
	UploadDir string
	// MaxBodyBytes caps create and update bodies. Zero means config.MaxRequestBodySize.
	MaxBodyBytes int64
}

// Router wires every route onto a new gin engine.
func (h *Handler) Router(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery(), RequestLogger(h.Log.Logger))

	if opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}
	if opts.UploadDir != "" {
		r.Static(h.URLPrefix, opts.UploadDir)
	}

	api := r.Group("/api", h.Auth.Middleware())
	api.GET("/users/me", h.Me)

	complaints := api.Group("/complaints")
	complaints.GET("", h.ListComplaints)
	complaints.GET("/events", h.ServeEvents)
	complaints.GET("/:id", h.GetComplaint)

	writes := complaints.Group("")
	if opts.Limiter != nil {
		writes.Use(mgin.NewMiddleware(opts.Limiter, mgin.WithKeyGetter(func(c *gin.Context) string {
			if actor := actorFrom(c); actor.ID != "" {
				return actor.ID
			}
			return c.ClientIP()
		})))
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = config.MaxRequestBodySize
	}
	writes.POST("", LimitBody(maxBody), h.CreateComplaint)
	writes.PATCH("/:id", LimitBody(maxBody), h.UpdateComplaint)
	writes.POST("/:id/withdraw", h.WithdrawComplaint)
	writes.DELETE("/:id", h.DeleteComplaint)

	return r
}
