package eventhub_test

import (
	"complainthub/backend/internal/models"
	"sync"
)

// mockClient records what the hub delivers to it.
type mockClient struct {
	UserID      string
	RecvChannel chan models.ComplaintEvent
	accept      func(models.ComplaintEvent) bool

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID string, accept func(models.ComplaintEvent) bool) *mockClient {
	if accept == nil {
		accept = func(models.ComplaintEvent) bool { return true }
	}
	return &mockClient{
		UserID:      userID,
		RecvChannel: make(chan models.ComplaintEvent, 10),
		accept:      accept,
	}
}

func (m *mockClient) GetUserID() string {
	return m.UserID
}

func (m *mockClient) Accepts(e models.ComplaintEvent) bool {
	return m.accept(e)
}

func (m *mockClient) GetSendChannel() chan<- models.ComplaintEvent {
	return m.RecvChannel
}

func (m *mockClient) Run() {}

func (m *mockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *mockClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// lossyMockClient asks the hub to drop events instead of disconnecting it.
type lossyMockClient struct {
	*mockClient
}

func (l lossyMockClient) DropsOnFullBuffer() bool {
	return true
}
