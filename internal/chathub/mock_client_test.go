package chathub_test

import (
	"sync"

	"skillswap/backend/internal/models"
)

// MockClient records every event the hub sends to it.
type MockClient struct {
	mu     sync.Mutex
	events []models.ServerEvent
	closed bool
}

func newMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Send(evt models.ServerEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.events = append(c.events, evt)
	return true
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Events returns the recorded events with the given name.
func (c *MockClient) Events(name string) []models.ServerEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.ServerEvent
	for _, e := range c.events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

func (c *MockClient) Last() models.ServerEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return models.ServerEvent{}
	}
	return c.events[len(c.events)-1]
}
