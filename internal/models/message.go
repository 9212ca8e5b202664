package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one chat line inside an accepted swap. Rows are append-only.
type Message struct {
	ID string `gorm:"primaryKey" json:"id"`
	// Seq is assigned by the database on insert and orders a swap's history.
	Seq int64 `gorm:"autoIncrement;not null;uniqueIndex" json:"-"`
	// SwapID is the swap whose chat room carried the message.
	SwapID string `gorm:"not null;index:idx_swap_msg" json:"swap_id"`
	// FromUserID is the sender. ToUserID is always the other participant of the swap.
	FromUserID string `gorm:"not null;index" json:"from_user_id"`
	ToUserID   string `gorm:"not null;index" json:"to_user_id"`
	// Body is stored in the "message" column to keep the wire and column names aligned.
	Body      string    `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index:idx_swap_msg" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
