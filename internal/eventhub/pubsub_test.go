package eventhub_test

import (
	"complainthub/backend/internal/eventhub"
	"complainthub/backend/internal/models"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRedis struct {
	mock.Mock
}

func (m *MockRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	args := m.Called(channel, message)
	return redis.NewIntResult(1, args.Error(0))
}

func (m *MockRedis) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	args := m.Called(channels)
	return args.Get(0).(*redis.PubSub)
}

func TestRedisBus_PublishEncodesEvent(t *testing.T) {
	rdb := new(MockRedis)
	var payload string
	rdb.On("Publish", "complaints:events", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { payload = args.String(1) }).
		Return(nil)

	bus := eventhub.NewRedisBus(rdb, "complaints:events", quietLogger())
	event := models.ComplaintEvent{
		Type:        models.EventWithdrawn,
		ComplaintID: "c1",
		SubmitterID: "s1",
		Status:      models.StatusWithdrawn,
	}
	require.NoError(t, bus.Publish(context.Background(), event))

	var decoded models.ComplaintEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.Equal(t, models.EventWithdrawn, decoded.Type)
	assert.Equal(t, "s1", decoded.SubmitterID)
	rdb.AssertExpectations(t)
}

func TestRedisBus_PublishError(t *testing.T) {
	rdb := new(MockRedis)
	rdb.On("Publish", "events", mock.Anything).Return(errors.New("connection refused"))

	bus := eventhub.NewRedisBus(rdb, "events", quietLogger())
	err := bus.Publish(context.Background(), models.ComplaintEvent{ComplaintID: "c1"})
	assert.EqualError(t, err, "connection refused")
}
