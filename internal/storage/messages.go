package storage

import (
	"context"

	"skillswap/backend/internal/models"

	"github.com/pkg/errors"
)

// AppendMessage persists msg and fills its ID, Seq and CreatedAt.
func (s *Service) AppendMessage(ctx context.Context, msg *models.Message) error {
	return errors.Wrap(s.DB.WithContext(ctx).Create(msg).Error, "storage.AppendMessage")
}

func (s *Service) ListMessagesBySwap(ctx context.Context, swapID string) ([]models.Message, error) {
	var history []models.Message
	err := s.DB.WithContext(ctx).
		Where("swap_id = ?", swapID).
		Order("seq asc").
		Find(&history).Error
	if err != nil {
		return nil, errors.Wrap(err, "storage.ListMessagesBySwap")
	}
	return history, nil
}
