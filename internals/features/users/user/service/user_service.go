package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookclub_backend/internals/constants"
	"bookclub_backend/internals/features/users/user/model"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// RoleOf returns the platform role of userID. Unknown or inactive users are plain USERs.
func (s *UserService) RoleOf(ctx context.Context, userID uuid.UUID) (string, error) {
	var u model.UserModel
	err := s.DB.WithContext(ctx).
		Select("id", "role", "is_active").
		Where("id = ?", userID).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return constants.RoleUser, nil
	}
	if err != nil {
		return "", fmt.Errorf("load role of %s: %w", userID, err)
	}
	if !u.IsActive {
		return constants.RoleUser, nil
	}
	return constants.NormalizeRole(u.Role), nil
}
