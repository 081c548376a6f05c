package eventhub

import (
	"complainthub/backend/internal/models"
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisClient is the subset of *redis.Client the bus uses.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// RedisBus publishes events to a Redis channel so every API instance's hub sees them.
type RedisBus struct {
	Client  RedisClient
	Channel string
	log     *logrus.Entry
}

func NewRedisBus(client RedisClient, channel string, logger *logrus.Logger) *RedisBus {
	return &RedisBus{
		Client:  client,
		Channel: channel,
		log:     logger.WithField("component", "redis-bus"),
	}
}

func (b *RedisBus) Publish(ctx context.Context, event models.ComplaintEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.Client.Publish(ctx, b.Channel, string(payload)).Err()
}

// Listen forwards events received on the channel into hub until ctx is cancelled.
func (b *RedisBus) Listen(ctx context.Context, hub *Hub) {
	pubsub := b.Client.Subscribe(ctx, b.Channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.ComplaintEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.log.WithError(err).Warn("dropping malformed event")
				continue
			}
			hub.Broadcast(event)
		}
	}
}

// LocalBus delivers events straight to an in-process hub. Used when Redis is not configured.
type LocalBus struct {
	Hub *Hub
}

func (b LocalBus) Publish(_ context.Context, event models.ComplaintEvent) error {
	b.Hub.Broadcast(event)
	return nil
}
