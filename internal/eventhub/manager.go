package eventhub

import (
	"complainthub/backend/internal/models"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Hub owns the set of connected clients. All mutations go through its channels and
// are applied by the Run loop.
type Hub struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.ComplaintEvent

	mu      sync.RWMutex
	clients map[Client]bool
	done    chan struct{}
	log     *logrus.Entry
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.ComplaintEvent, 64),
		clients:      make(map[Client]bool),
		done:         make(chan struct{}),
		log:          logger.WithField("component", "eventhub"),
	}
}

// Run dispatches until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.RegisterCh:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.WithField("user", client.GetUserID()).Debug("client registered")

		case client := <-h.UnregisterCh:
			h.remove(client)

		case event := <-h.BroadcastCh:
			h.dispatch(event)
		}
	}
}

func (h *Hub) dispatch(event models.ComplaintEvent) {
	h.mu.RLock()
	targets := make([]Client, 0, len(h.clients))
	for c := range h.clients {
		if c.Accepts(event) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.GetSendChannel() <- event:
		default:
			if l, ok := c.(Lossy); ok && l.DropsOnFullBuffer() {
				h.log.WithFields(logrus.Fields{
					"user":      c.GetUserID(),
					"complaint": event.ComplaintID,
					"type":      event.Type,
				}).Warn("client send buffer full, dropping event")
				continue
			}
			// Slow consumer: drop it rather than stall every other subscriber.
			h.log.WithField("user", c.GetUserID()).Warn("client send buffer full, disconnecting")
			h.remove(c)
		}
	}
}

func (h *Hub) remove(client Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()
	if ok {
		client.Close()
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[Client]bool)
	h.mu.Unlock()
	for c := range clients {
		c.Close()
	}
}

// Register adds client to the hub. It is a no-op once the hub has stopped.
func (h *Hub) Register(client Client) {
	select {
	case h.RegisterCh <- client:
	case <-h.done:
	}
}

// Unregister removes client and closes it. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(client Client) {
	select {
	case h.UnregisterCh <- client:
	case <-h.done:
	}
}

// Broadcast queues event for delivery. It is a no-op once the hub has stopped.
func (h *Hub) Broadcast(event models.ComplaintEvent) {
	select {
	case h.BroadcastCh <- event:
	case <-h.done:
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Has reports whether client is currently registered.
func (h *Hub) Has(client Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[client]
}
