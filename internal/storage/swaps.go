package storage

import (
	"context"

	"skillswap/backend/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (s *Service) FindSwapByID(ctx context.Context, id string) (*models.Swap, error) {
	var swap models.Swap
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&swap).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "storage.FindSwapByID")
	}
	return &swap, nil
}

func (s *Service) CreateSwap(ctx context.Context, swap *models.Swap) error {
	return errors.Wrap(s.DB.WithContext(ctx).Create(swap).Error, "storage.CreateSwap")
}

// DecideSwap applies the decision only while the row is still pending, so two concurrent
// decisions cannot both succeed. Returns (nil, nil) for an unknown swap and ErrNotPending
// when the swap was already decided.
func (s *Service) DecideSwap(ctx context.Context, id string, status models.SwapStatus) (*models.Swap, error) {
	var decided models.Swap
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Swap{}).
			Where("id = ? AND status = ?", id, models.SwapPending).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Where("id = ?", id).First(&decided).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}
		if status != models.SwapAccepted {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id IN ?", []string{decided.FromUserID, decided.ToUserID}).
			Update("completed_swaps", gorm.Expr("completed_swaps + ?", 1)).Error
	})
	switch {
	case notFound(err):
		return nil, nil
	case errors.Is(err, ErrNotPending):
		return &decided, ErrNotPending
	case err != nil:
		return nil, errors.Wrap(err, "storage.DecideSwap")
	}
	return &decided, nil
}

// ListSwapsForUser returns every swap the user takes part in, newest first.
func (s *Service) ListSwapsForUser(ctx context.Context, userID string) ([]models.Swap, error) {
	var swaps []models.Swap
	err := s.DB.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at desc").
		Find(&swaps).Error
	if err != nil {
		return nil, errors.Wrap(err, "storage.ListSwapsForUser")
	}
	return swaps, nil
}

func (s *Service) ListAcceptedSwapsForUser(ctx context.Context, userID string) ([]models.Swap, error) {
	var swaps []models.Swap
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.SwapAccepted).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&swaps).Error
	if err != nil {
		return nil, errors.Wrap(err, "storage.ListAcceptedSwapsForUser")
	}
	return swaps, nil
}
