package eventhub

import (
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/models"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// WebSocketClient streams the events its actor may see over a WebSocket connection.
// The feed is one-way; anything the browser sends is discarded.
type WebSocketClient struct {
	Actor  models.Actor
	Policy *complaint.Policy
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan models.ComplaintEvent
	Log    *logrus.Entry
}

func NewWebSocketClient(actor models.Actor, policy *complaint.Policy, conn *websocket.Conn, hub *Hub, log *logrus.Entry) *WebSocketClient {
	return &WebSocketClient{
		Actor:  actor,
		Policy: policy,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.ComplaintEvent, sendBuffer),
		Log:    log,
	}
}

func (c *WebSocketClient) GetUserID() string {
	return c.Actor.ID
}

func (c *WebSocketClient) GetSendChannel() chan<- models.ComplaintEvent {
	return c.Send
}

// Accepts applies the same view rule as reads: managers see all, submitters their own.
func (c *WebSocketClient) Accepts(event models.ComplaintEvent) bool {
	target := &models.Complaint{ID: event.ComplaintID, SubmitterID: event.SubmitterID, Status: event.Status}
	return c.Policy.CanPerform(c.Actor, target, complaint.ActionView)
}

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops writePump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.WithError(err).Debug("websocket read failed")
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				c.Log.WithError(err).Error("encoding event")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
