package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"bookclub_backend/internals/features/home/notifications/model"
	"bookclub_backend/internals/helpers/apperr"
)

type NotificationService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db, now: time.Now}
}

// Notify stores one notification addressed to userID.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, notifType, title, content, link string) error {
	n := model.NotificationModel{
		NotificationTitle:       title,
		NotificationDescription: content,
		NotificationType:        notifType,
		NotificationTags:        pq.StringArray{strings.ToLower(notifType)},
	}
	if link != "" {
		n.NotificationLink = &link
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&n).Error; err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		nu := model.NotificationUserModel{
			NotificationUserNotificationID: n.NotificationID,
			NotificationUserUserID:         userID,
			NotificationUserSentAt:         s.now(),
		}
		if err := tx.Create(&nu).Error; err != nil {
			return fmt.Errorf("create notification_user: %w", err)
		}
		return nil
	})
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]model.NotificationUserModel, int64, error) {
	q := s.DB.WithContext(ctx).
		Model(&model.NotificationUserModel{}).
		Where("notification_users_user_id = ?", userID)
	if unreadOnly {
		q = q.Where("notification_users_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	var rows []model.NotificationUserModel
	if err := q.Preload("Notification").
		Order("notification_users_sent_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return rows, total, nil
}

// MarkRead flags a delivery row as read. Rows of other users are reported as missing.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Model(&model.NotificationUserModel{}).
		Where("notification_users_id = ? AND notification_users_user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"notification_users_read":    true,
			"notification_users_read_at": s.now(),
		})
	if res.Error != nil {
		return fmt.Errorf("mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundError{Resource: "notification"}
	}
	return nil
}
