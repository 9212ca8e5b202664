package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SwapStatus string

const (
	SwapPending  SwapStatus = "pending"
	SwapAccepted SwapStatus = "accepted"
	SwapRejected SwapStatus = "rejected"
)

// Swap is a proposed exchange of one skill for another between two users.
// Status only moves from pending to accepted or rejected.
type Swap struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	FromUserID   string     `gorm:"index;not null" json:"from_user_id"`
	ToUserID     string     `gorm:"index;not null" json:"to_user_id"`
	OfferedSkill string     `json:"offered_skill"`
	WantedSkill  string     `json:"wanted_skill"`
	Message      string     `gorm:"type:text" json:"message"`
	Status       SwapStatus `gorm:"type:text;not null;default:pending;index" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (s *Swap) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = SwapPending
	}
	return
}

// IsParticipant reports whether userID is one of the two sides of the swap.
func (s *Swap) IsParticipant(userID string) bool {
	return userID != "" && (s.FromUserID == userID || s.ToUserID == userID)
}

func (s *Swap) IsAccepted() bool { return s.Status == SwapAccepted }

// OtherParticipant returns the counterpart of userID, or "" if userID is not a participant.
func (s *Swap) OtherParticipant(userID string) string {
	switch userID {
	case s.FromUserID:
		return s.ToUserID
	case s.ToUserID:
		return s.FromUserID
	default:
		return ""
	}
}

// CanTransition reports whether the swap may move to the given status.
func (s *Swap) CanTransition(to SwapStatus) bool {
	return s.Status == SwapPending && (to == SwapAccepted || to == SwapRejected)
}
