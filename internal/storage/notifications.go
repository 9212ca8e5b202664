package storage

import (
	"context"
	"strconv"
	"time"

	"skillswap/backend/internal/config"
	"skillswap/backend/internal/models"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// unreadVersionTTL outlives any in-flight count by a wide margin.
const unreadVersionTTL = 24 * time.Hour

func unreadKey(userID string) string {
	return "notifications:unread:" + userID
}

// unreadVersionKey is bumped on every invalidation so a count read before it is never cached.
func unreadVersionKey(userID string) string {
	return "notifications:unread:ver:" + userID
}

func (s *Service) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		return errors.Wrap(err, "storage.CreateNotification")
	}
	s.invalidateUnread(ctx, n.UserID)
	return nil
}

// ListNotificationsByUser returns at most limit notifications, newest first.
func (s *Service) ListNotificationsByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var list []models.Notification
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, errors.Wrap(err, "storage.ListNotificationsByUser")
	}
	return list, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	var n models.Notification
	db := s.DB.WithContext(ctx)
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "storage.MarkNotificationRead")
	}
	if n.IsRead {
		return &n, nil
	}
	if err := db.Model(&n).Update("is_read", true).Error; err != nil {
		return nil, errors.Wrap(err, "storage.MarkNotificationRead")
	}
	n.IsRead = true
	s.invalidateUnread(ctx, userID)
	return &n, nil
}

// MarkAllNotificationsRead returns the number of notifications that changed.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "storage.MarkAllNotificationsRead")
	}
	s.invalidateUnread(ctx, userID)
	return res.RowsAffected, nil
}

// CountUnreadNotifications answers from the Redis cache when possible. A Redis failure
// falls back to the database.
func (s *Service) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var version int64
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, unreadKey(userID)).Result()
		switch {
		case err == nil:
			if n, convErr := strconv.ParseInt(cached, 10, 64); convErr == nil {
				return n, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Warn().Err(err).Str("user_id", userID).Msg("unread cache read failed")
		}
		version = s.unreadVersion(ctx, userID)
	}

	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "storage.CountUnreadNotifications")
	}

	if s.Redis != nil {
		s.fillUnread(ctx, userID, version, count)
	}
	return count, nil
}

func (s *Service) unreadVersion(ctx context.Context, userID string) int64 {
	v, err := s.Redis.Get(ctx, unreadVersionKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("user_id", userID).Msg("unread cache version read failed")
	}
	return v
}

// fillUnread caches count unless an invalidation bumped the version since it was read.
func (s *Service) fillUnread(ctx context.Context, userID string, version, count int64) {
	verKey := unreadVersionKey(userID)
	err := s.Redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, unreadKey(userID), count, config.UnreadCountCacheTTL)
			return nil
		})
		return err
	}, verKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		log.Warn().Err(err).Str("user_id", userID).Msg("unread cache write failed")
	}
}

func (s *Service) invalidateUnread(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	_, err := s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, unreadVersionKey(userID))
		pipe.Expire(ctx, unreadVersionKey(userID), unreadVersionTTL)
		pipe.Del(ctx, unreadKey(userID))
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("unread cache invalidation failed")
	}
}
