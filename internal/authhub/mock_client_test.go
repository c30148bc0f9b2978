package authhub_test

import (
	"sync"

	"ethereal/backend/internal/models"
)

type MockClient struct {
	userID      string
	RecvChannel chan models.AuthEvent

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID string, buffer int) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan models.AuthEvent, buffer),
	}
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetSendChannel() chan<- models.AuthEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
