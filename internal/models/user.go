package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // pq.StringArray for the skill lists
	"gorm.io/gorm"
)

// PlaceholderAvatar is shown for users who never uploaded a photo.
const PlaceholderAvatar = "/placeholder-user.jpg"

// User is a marketplace member. Email is the identity used by realtime sessions.
type User struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	Name           string         `json:"name"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	PhotoURL       string         `json:"photo_url"`
	Location       string         `json:"location"`
	Bio            string         `gorm:"type:text" json:"bio"`
	Availability   string         `json:"availability"`
	SkillsOffered  pq.StringArray `gorm:"type:text[]" json:"skills_offered"`
	SkillsWanted   pq.StringArray `gorm:"type:text[]" json:"skills_wanted"`
	IsPublic       bool           `gorm:"default:true" json:"is_public"`
	Rating         float64        `gorm:"default:0" json:"rating"`
	TotalSwaps     int            `gorm:"default:0" json:"total_swaps"`
	CompletedSwaps int            `gorm:"default:0" json:"completed_swaps"`
	JoinedDate     time.Time      `gorm:"autoCreateTime" json:"joined_date"`
	Reviews        []Review       `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// Avatar returns the photo URL or the placeholder image.
func (u *User) Avatar() string {
	if u.PhotoURL == "" {
		return PlaceholderAvatar
	}
	return u.PhotoURL
}

// Review is left on a user's profile after a swap.
type Review struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"index;not null" json:"user_id"`
	ReviewerID     string    `json:"reviewer_id"`
	ReviewerName   string    `json:"reviewer_name"`
	ReviewerAvatar string    `json:"reviewer_avatar"`
	Rating         int       `gorm:"not null" json:"rating"`
	Comment        string    `gorm:"type:text" json:"comment"`
	SkillTaught    string    `json:"skill_taught"`
	Date           time.Time `gorm:"autoCreateTime" json:"date"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
