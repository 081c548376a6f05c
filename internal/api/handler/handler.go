// Package handler exposes the complaint lifecycle over HTTP. Handlers only translate
// between HTTP and complaint.Service; every decision is made by the service.
package handler

import (
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/eventhub"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Handler holds the dependencies shared by all routes.
type Handler struct {
	Complaints *complaint.Service
	Hub        *eventhub.Hub
	Auth       *Authenticator
	// URLPrefix is where stored attachments are served from.
	URLPrefix string
	Log       *logrus.Entry

	upgrader websocket.Upgrader
}

func NewHandler(svc *complaint.Service, hub *eventhub.Hub, auth *Authenticator, urlPrefix string, allowedOrigins []string, logger *logrus.Logger) *Handler {
	return &Handler{
		Complaints: svc,
		Hub:        hub,
		Auth:       auth,
		URLPrefix:  urlPrefix,
		Log:        logger.WithField("component", "http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker allows same-host requests and the configured origins. A "*" entry
// allows everything.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set["*"] || set[origin] {
			return true
		}
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
}
