package dto

import (
	"time"

	"github.com/google/uuid"

	"bookclub_backend/internals/features/home/notifications/model"
)

type UserNotificationResponse struct {
	ID          uuid.UUID  `json:"notification_users_id"`
	Type        string     `json:"notification_type"`
	Title       string     `json:"notification_title"`
	Description string     `json:"notification_description"`
	Link        *string    `json:"notification_link,omitempty"`
	Tags        []string   `json:"notification_tags"`
	Read        bool       `json:"read"`
	SentAt      time.Time  `json:"sent_at"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

func ToUserNotificationResponse(m *model.NotificationUserModel) UserNotificationResponse {
	tags := []string(m.Notification.NotificationTags)
	if tags == nil {
		tags = []string{}
	}
	return UserNotificationResponse{
		ID:          m.NotificationUserID,
		Type:        m.Notification.NotificationType,
		Title:       m.Notification.NotificationTitle,
		Description: m.Notification.NotificationDescription,
		Link:        m.Notification.NotificationLink,
		Tags:        tags,
		Read:        m.NotificationUserRead,
		SentAt:      m.NotificationUserSentAt,
		ReadAt:      m.NotificationUserReadAt,
	}
}

func ToUserNotificationResponseList(list []model.NotificationUserModel) []UserNotificationResponse {
	out := make([]UserNotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, ToUserNotificationResponse(&list[i]))
	}
	return out
}
