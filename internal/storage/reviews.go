package storage

import (
	"context"

	"skillswap/backend/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (s *Service) AddReview(ctx context.Context, review *models.Review) (float64, error) {
	var avg float64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Review{}).
			Where("user_id = ?", review.UserID).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&avg).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", review.UserID).
			Update("rating", avg).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "storage.AddReview")
	}
	return avg, nil
}
