package chathub

import "skillswap/backend/internal/models"

// Client is the interface for any type of connection (e.g., WebSocket).
// It abstracts the underlying transport so the hub can route events to every
// connection type uniformly.
type Client interface {
	// Send enqueues an event for delivery without blocking. It returns false when the
	// connection is closed or its outbound buffer is full.
	Send(evt models.ServerEvent) bool

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the connection down. Safe to call more than once.
	Close()
}
