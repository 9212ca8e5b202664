package storage

import (
	"context"

	"skillswap/backend/internal/models"

	"github.com/pkg/errors"
)

func (s *Service) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "storage.FindUserByEmail")
	}
	return &user, nil
}

func (s *Service) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "storage.FindUserByID")
	}
	return &user, nil
}

// FindUsersByIDs loads the users that exist among ids, in no particular order.
func (s *Service) FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "storage.FindUsersByIDs")
	}
	return users, nil
}

// SaveUser inserts or updates the user.
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	return errors.Wrap(s.DB.WithContext(ctx).Save(user).Error, "storage.SaveUser")
}
