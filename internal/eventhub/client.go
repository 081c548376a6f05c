// Package eventhub fans committed complaint events out to live subscribers
// (WebSocket dashboards, the Telegram notifier) and carries them across processes
// over Redis pub/sub.
package eventhub

import "complainthub/backend/internal/models"

// Client is the interface for any subscriber of complaint events (e.g., WebSocket, Telegram).
type Client interface {
	// GetUserID returns the identifier of the user or channel behind the client.
	GetUserID() string
	// Accepts reports whether the event may be delivered to this client.
	Accepts(event models.ComplaintEvent) bool
	// GetSendChannel returns the channel the hub writes accepted events to.
	GetSendChannel() chan<- models.ComplaintEvent

	// Run starts the client's pumps.
	Run()
	// Close shuts the client down. The hub calls it exactly once.
	Close()
}

// Lossy is implemented by clients that must stay registered when their send buffer
// is full. The hub drops the event for them instead of disconnecting them.
type Lossy interface {
	DropsOnFullBuffer() bool
}
