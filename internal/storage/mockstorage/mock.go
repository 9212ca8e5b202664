// Package mockstorage provides a testify mock of storage.Storage for service and handler tests.
package mockstorage

import (
	"context"

	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

var _ storage.Storage = (*MockStorage)(nil)

// MockStorage records calls with mock.Anything-friendly arguments; ctx is never matched.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) FindUserByID(_ context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) FindUsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(_ context.Context, user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// Swap operations
func (m *MockStorage) FindSwapByID(_ context.Context, id string) (*models.Swap, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Swap), args.Error(1)
}

func (m *MockStorage) CreateSwap(_ context.Context, swap *models.Swap) error {
	args := m.Called(swap)
	return args.Error(0)
}

func (m *MockStorage) DecideSwap(_ context.Context, id string, status models.SwapStatus) (*models.Swap, error) {
	args := m.Called(id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Swap), args.Error(1)
}

func (m *MockStorage) ListSwapsForUser(_ context.Context, userID string) ([]models.Swap, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Swap), args.Error(1)
}

func (m *MockStorage) ListAcceptedSwapsForUser(_ context.Context, userID string) ([]models.Swap, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Swap), args.Error(1)
}

// Message operations
func (m *MockStorage) AppendMessage(_ context.Context, msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) ListMessagesBySwap(_ context.Context, swapID string) ([]models.Message, error) {
	args := m.Called(swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// Notification operations
func (m *MockStorage) CreateNotification(_ context.Context, n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockStorage) ListNotificationsByUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) MarkNotificationRead(_ context.Context, id, userID string) (*models.Notification, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockStorage) MarkAllNotificationsRead(_ context.Context, userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountUnreadNotifications(_ context.Context, userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// Review operations
func (m *MockStorage) AddReview(_ context.Context, review *models.Review) (float64, error) {
	args := m.Called(review)
	return args.Get(0).(float64), args.Error(1)
}
