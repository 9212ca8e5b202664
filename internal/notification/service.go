// Package notification persists user notifications and pushes them to connected
// clients. Persisting always comes first; a push is best effort.
package notification

import (
	"context"

	"skillswap/backend/internal/config"
	"skillswap/backend/internal/localization"
	"skillswap/backend/internal/metrics"
	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

var (
	ErrNotFound      = errors.New("notification not found")
	ErrUsersNotFound = errors.New("users not found")
	ErrInvalidType   = errors.New("invalid notification type")
)

// Pusher delivers a notification to the live session of identity, reporting whether it did.
type Pusher interface {
	PushNotification(identity string, view models.NotificationView) bool
}

// Store is the persistence the dispatcher needs.
type Store interface {
	storage.UserDirectory
	storage.NotificationStore
}

type Service struct {
	store  Store
	pusher Pusher
	l10n   *localization.Localizer
	lang   string
}

// NewService builds the dispatcher. pusher may be nil, which makes it pull-only.
func NewService(store Store, pusher Pusher, l10n *localization.Localizer) *Service {
	return &Service{store: store, pusher: pusher, l10n: l10n, lang: localization.DefaultLanguage}
}

// WithLanguage switches the language of generated titles and bodies. Keys missing in
// lang fall back to the default language.
func (s *Service) WithLanguage(lang string) *Service {
	if lang != "" {
		s.lang = lang
	}
	return s
}

// Notify persists a notification for userID and pushes it if the user is online.
// The returned notification is the stored record.
func (s *Service) Notify(ctx context.Context, userID string, typ models.NotificationType, title, message string, data models.NotificationData) (*models.Notification, error) {
	if !typ.Valid() {
		return nil, ErrInvalidType
	}
	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    datatypes.NewJSONType(data),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, errors.Wrap(err, "notification: persist")
	}
	metrics.NotificationsTotal.WithLabelValues(string(typ)).Inc()

	s.push(ctx, n)
	return n, nil
}

func (s *Service) push(ctx context.Context, n *models.Notification) {
	if s.pusher == nil {
		return
	}
	user, err := s.store.FindUserByID(ctx, n.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", n.UserID).Msg("notification push: user lookup failed")
		metrics.NotificationPushesTotal.WithLabelValues("error").Inc()
		return
	}
	if user == nil {
		metrics.NotificationPushesTotal.WithLabelValues("unknown_user").Inc()
		return
	}
	if s.pusher.PushNotification(user.Email, n.View()) {
		metrics.NotificationPushesTotal.WithLabelValues("delivered").Inc()
		return
	}
	metrics.NotificationPushesTotal.WithLabelValues("offline").Inc()
}

// pair loads both parties of a swap or review.
func (s *Service) pair(ctx context.Context, firstID, secondID string) (*models.User, *models.User, error) {
	first, err := s.store.FindUserByID(ctx, firstID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "notification: load user")
	}
	second, err := s.store.FindUserByID(ctx, secondID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "notification: load user")
	}
	if first == nil || second == nil {
		return nil, nil, ErrUsersNotFound
	}
	return first, second, nil
}

func (s *Service) text(typ models.NotificationType, name string) (string, string) {
	prefix := "notification." + string(typ)
	return s.l10n.GetString(s.lang, prefix+".title"),
		s.l10n.Format(s.lang, prefix+".body", map[string]string{"name": name})
}

// NotifySwapRequest tells the receiver of a new swap who asked.
func (s *Service) NotifySwapRequest(ctx context.Context, swapID, fromUserID, toUserID string) (*models.Notification, error) {
	from, _, err := s.pair(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	title, body := s.text(models.NotificationSwapRequest, from.Name)
	return s.Notify(ctx, toUserID, models.NotificationSwapRequest, title, body,
		models.NotificationData{SwapID: swapID, FromUserID: fromUserID, ToUserID: toUserID})
}

// NotifySwapAccepted tells the requester that the receiver accepted.
func (s *Service) NotifySwapAccepted(ctx context.Context, swapID, fromUserID, toUserID string) (*models.Notification, error) {
	_, to, err := s.pair(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	title, body := s.text(models.NotificationSwapAccepted, to.Name)
	return s.Notify(ctx, fromUserID, models.NotificationSwapAccepted, title, body,
		models.NotificationData{SwapID: swapID, FromUserID: fromUserID, ToUserID: toUserID})
}

// NotifySwapRejected tells the requester that the receiver declined.
func (s *Service) NotifySwapRejected(ctx context.Context, swapID, fromUserID, toUserID string) (*models.Notification, error) {
	_, to, err := s.pair(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	title, body := s.text(models.NotificationSwapRejected, to.Name)
	return s.Notify(ctx, fromUserID, models.NotificationSwapRejected, title, body,
		models.NotificationData{SwapID: swapID, FromUserID: fromUserID, ToUserID: toUserID})
}

// NotifyNewReview tells the reviewed user who reviewed them.
func (s *Service) NotifyNewReview(ctx context.Context, reviewID, reviewerID, reviewedUserID string) (*models.Notification, error) {
	reviewer, _, err := s.pair(ctx, reviewerID, reviewedUserID)
	if err != nil {
		return nil, err
	}
	title, body := s.text(models.NotificationNewReview, reviewer.Name)
	return s.Notify(ctx, reviewedUserID, models.NotificationNewReview, title, body,
		models.NotificationData{ReviewID: reviewID, FromUserID: reviewerID, ToUserID: reviewedUserID})
}

// List returns the user's notifications, newest first. limit <= 0 means the default page.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	switch {
	case limit <= 0:
		limit = config.DefaultNotificationLimit
	case limit > config.MaxNotificationLimit:
		limit = config.MaxNotificationLimit
	}
	list, err := s.store.ListNotificationsByUser(ctx, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "notification: list")
	}
	return list, nil
}

// MarkRead flags one of the user's notifications as read. Another user's notification
// is reported as ErrNotFound.
func (s *Service) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	n, err := s.store.MarkNotificationRead(ctx, id, userID)
	if err != nil {
		return nil, errors.Wrap(err, "notification: mark read")
	}
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	changed, err := s.store.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "notification: mark all read")
	}
	return changed, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "notification: unread count")
	}
	return count, nil
}
