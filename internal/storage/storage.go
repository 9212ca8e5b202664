package storage

import (
	"context"

	"skillswap/backend/internal/models"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotPending is returned by DecideSwap when the swap was already decided.
var ErrNotPending = errors.New("swap is no longer pending")

// Lookups return (nil, nil) when the record does not exist.

type UserDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

type SwapLedger interface {
	FindSwapByID(ctx context.Context, id string) (*models.Swap, error)
	CreateSwap(ctx context.Context, swap *models.Swap) error
	// DecideSwap moves a pending swap to status. On accept both users' completed_swaps grow by one.
	DecideSwap(ctx context.Context, id string, status models.SwapStatus) (*models.Swap, error)
	ListSwapsForUser(ctx context.Context, userID string) ([]models.Swap, error)
	ListAcceptedSwapsForUser(ctx context.Context, userID string) ([]models.Swap, error)
}

type MessageStore interface {
	AppendMessage(ctx context.Context, msg *models.Message) error
	// ListMessagesBySwap returns the chat history in creation order.
	ListMessagesBySwap(ctx context.Context, swapID string) ([]models.Message, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotificationsByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	// MarkNotificationRead only touches a notification owned by userID.
	MarkNotificationRead(ctx context.Context, id, userID string) (*models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
}

type ReviewStore interface {
	// AddReview stores the review and returns the reviewed user's new average rating.
	AddReview(ctx context.Context, review *models.Review) (float64, error)
}

type Storage interface {
	UserDirectory
	SwapLedger
	MessageStore
	NotificationStore
	ReviewStore
}

// Service implements Storage on PostgreSQL. Redis is optional and only caches unread counters.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
