package storage

import "context"

// Hooks into the unread cache for tests that need to interleave a fill with an invalidation.

func (s *Service) UnreadVersion(ctx context.Context, userID string) int64 {
	return s.unreadVersion(ctx, userID)
}

func (s *Service) FillUnread(ctx context.Context, userID string, version, count int64) {
	s.fillUnread(ctx, userID, version, count)
}
