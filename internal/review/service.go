// Package review records profile reviews and notifies the reviewed user.
package review

import (
	"context"
	"strings"

	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrUserNotFound  = errors.New("user not found")
	ErrSelfReview    = errors.New("cannot review yourself")
)

type Notifier interface {
	NotifyNewReview(ctx context.Context, reviewID, reviewerID, reviewedUserID string) (*models.Notification, error)
}

type Store interface {
	storage.UserDirectory
	storage.ReviewStore
}

type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

type Input struct {
	Rating      int    `json:"rating" binding:"required"`
	Comment     string `json:"comment"`
	SkillTaught string `json:"skill_taught"`
}

// Add stores a review of reviewedUserID written by the caller and returns it with the
// reviewed user's new average rating.
func (s *Service) Add(ctx context.Context, reviewerEmail, reviewedUserID string, in Input) (*models.Review, float64, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, 0, ErrInvalidRating
	}
	reviewer, err := s.store.FindUserByEmail(ctx, reviewerEmail)
	if err != nil {
		return nil, 0, errors.Wrap(err, "review: load reviewer")
	}
	reviewed, err := s.store.FindUserByID(ctx, reviewedUserID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "review: load reviewed user")
	}
	if reviewer == nil || reviewed == nil {
		return nil, 0, ErrUserNotFound
	}
	if reviewer.ID == reviewed.ID {
		return nil, 0, ErrSelfReview
	}

	rv := &models.Review{
		UserID:         reviewed.ID,
		ReviewerID:     reviewer.ID,
		ReviewerName:   reviewer.Name,
		ReviewerAvatar: reviewer.Avatar(),
		Rating:         in.Rating,
		Comment:        strings.TrimSpace(in.Comment),
		SkillTaught:    in.SkillTaught,
	}
	avg, err := s.store.AddReview(ctx, rv)
	if err != nil {
		return nil, 0, errors.Wrap(err, "review: add")
	}

	if _, err := s.notifier.NotifyNewReview(ctx, rv.ID, reviewer.ID, reviewed.ID); err != nil {
		log.Warn().Err(err).Str("review_id", rv.ID).Msg("review notification failed")
	}
	return rv, avg, nil
}
