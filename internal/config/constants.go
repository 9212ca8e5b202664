package config

import "time"

const (
	// DefaultNotificationLimit is the page size of a notification listing when none is given.
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100

	// DefaultMaxMessageLength bounds a chat message body in bytes.
	DefaultMaxMessageLength = 2000

	// UnreadCountCacheTTL is how long a cached unread counter lives in Redis.
	UnreadCountCacheTTL = 5 * time.Minute

	// SendBufferSize is the per-connection outbound queue length.
	SendBufferSize = 256
)
