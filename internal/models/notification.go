package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationSwapRequest  NotificationType = "swap_request"
	NotificationSwapAccepted NotificationType = "swap_accepted"
	NotificationSwapRejected NotificationType = "swap_rejected"
	NotificationNewReview    NotificationType = "new_review"
	NotificationMessage      NotificationType = "message"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSwapRequest, NotificationSwapAccepted, NotificationSwapRejected,
		NotificationNewReview, NotificationMessage:
		return true
	}
	return false
}

// NotificationData references the records that triggered a notification.
type NotificationData struct {
	SwapID     string `json:"swap_id,omitempty"`
	FromUserID string `json:"from_user_id,omitempty"`
	ToUserID   string `json:"to_user_id,omitempty"`
	ReviewID   string `json:"review_id,omitempty"`
	MessageID  string `json:"message_id,omitempty"`
}

// Notification is a persisted alert for one user. Only IsRead changes after creation.
type Notification struct {
	ID        string                               `gorm:"primaryKey" json:"id"`
	UserID    string                               `gorm:"not null;index:idx_notif_user" json:"user_id"`
	Type      NotificationType                     `gorm:"type:text;not null" json:"type"`
	Title     string                               `gorm:"not null" json:"title"`
	Message   string                               `gorm:"type:text;not null" json:"message"`
	Data      datatypes.JSONType[NotificationData] `json:"data"`
	IsRead    bool                                 `gorm:"default:false;index:idx_notif_user" json:"is_read"`
	CreatedAt time.Time                            `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

// View converts the record into the payload pushed over the realtime channel.
func (n *Notification) View() NotificationView {
	return NotificationView{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data.Data(),
		CreatedAt: n.CreatedAt,
	}
}
