// Package telegram forwards complaint activity to the managers' Telegram chat.
package telegram

import (
	"complainthub/backend/internal/models"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// notifierBuffer absorbs bursts while the Bot API is slow. Events past it are dropped.
const notifierBuffer = 256

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier is an eventhub.Client that posts new complaints and manager status
// changes into a single Telegram chat.
type Notifier struct {
	ChatID int64
	BotAPI Sender
	Send   chan models.ComplaintEvent
	Log    *logrus.Entry
	done   chan struct{}
}

func NewNotifier(bot Sender, chatID int64, logger *logrus.Logger) *Notifier {
	return &Notifier{
		ChatID: chatID,
		BotAPI: bot,
		Send:   make(chan models.ComplaintEvent, notifierBuffer),
		Log:    logger.WithField("component", "telegram"),
		done:   make(chan struct{}),
	}
}

// NewBotNotifier connects to the Bot API with token.
func NewBotNotifier(token string, chatID int64, logger *logrus.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	logger.WithField("bot", bot.Self.UserName).Info("telegram notifier authorized")
	return NewNotifier(bot, chatID, logger), nil
}

func (n *Notifier) GetUserID() string {
	return strconv.FormatInt(n.ChatID, 10)
}

func (n *Notifier) GetSendChannel() chan<- models.ComplaintEvent {
	return n.Send
}

// DropsOnFullBuffer keeps the notifier registered for the life of the process.
func (n *Notifier) DropsOnFullBuffer() bool {
	return true
}

// Accepts keeps the chat quiet: only new complaints and manager updates are posted.
func (n *Notifier) Accepts(event models.ComplaintEvent) bool {
	return event.Type == models.EventCreated || event.Type == models.EventUpdated
}

func (n *Notifier) Run() {
	go n.writePump()
}

func (n *Notifier) Close() {
	close(n.Send)
}

// Done is closed once every queued event has been handled after Close.
func (n *Notifier) Done() <-chan struct{} { return n.done }

func (n *Notifier) writePump() {
	defer close(n.done)

	for event := range n.Send {
		msg := tgbotapi.NewMessage(n.ChatID, FormatEvent(event))
		if _, err := n.BotAPI.Send(msg); err != nil {
			n.Log.WithError(err).WithField("complaint", event.ComplaintID).Error("sending telegram message")
		}
	}
}

// FormatEvent renders event as plain text.
func FormatEvent(event models.ComplaintEvent) string {
	var b strings.Builder
	switch event.Type {
	case models.EventCreated:
		fmt.Fprintf(&b, "New complaint: %s\n", event.Title)
		fmt.Fprintf(&b, "Category: %s\n", event.Category)
		fmt.Fprintf(&b, "Priority: %s\n", event.Priority)
	case models.EventUpdated:
		fmt.Fprintf(&b, "Complaint updated: %s\n", event.Title)
		fmt.Fprintf(&b, "Status: %s\n", event.Status)
		fmt.Fprintf(&b, "Priority: %s\n", event.Priority)
	default:
		fmt.Fprintf(&b, "Complaint %s: %s\n", event.Type, event.Title)
	}
	fmt.Fprintf(&b, "ID: %s", event.ComplaintID)
	return b.String()
}
