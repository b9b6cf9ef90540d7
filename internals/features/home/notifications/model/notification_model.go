package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Notification types emitted by the report review flow.
const (
	TypeReportApproved          = "REPORT_APPROVED"
	TypeReportRejected          = "REPORT_REJECTED"
	TypeReportRevisionRequested = "REPORT_REVISION_REQUESTED"
)

type NotificationModel struct {
	NotificationID          uuid.UUID      `gorm:"column:notification_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"notification_id"`
	NotificationTitle       string         `gorm:"column:notification_title;type:varchar(255);not null" json:"notification_title"`
	NotificationDescription string         `gorm:"column:notification_description;type:text" json:"notification_description"`
	NotificationType        string         `gorm:"column:notification_type;type:varchar(40);not null" json:"notification_type"`
	NotificationLink        *string        `gorm:"column:notification_link;type:text" json:"notification_link,omitempty"`
	NotificationTags        pq.StringArray `gorm:"column:notification_tags;type:text[]" json:"notification_tags"`
	NotificationCreatedAt   time.Time      `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// NotificationUserModel is the per-recipient delivery row.
type NotificationUserModel struct {
	NotificationUserID             uuid.UUID  `gorm:"column:notification_users_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"notification_users_id"`
	NotificationUserNotificationID uuid.UUID  `gorm:"column:notification_users_notification_id;type:uuid;not null;index" json:"notification_users_notification_id"`
	NotificationUserUserID         uuid.UUID  `gorm:"column:notification_users_user_id;type:uuid;not null;index" json:"notification_users_user_id"`
	NotificationUserRead           bool       `gorm:"column:notification_users_read;not null;default:false" json:"notification_users_read"`
	NotificationUserSentAt         time.Time  `gorm:"column:notification_users_sent_at;not null" json:"notification_users_sent_at"`
	NotificationUserReadAt         *time.Time `gorm:"column:notification_users_read_at" json:"notification_users_read_at,omitempty"`

	Notification NotificationModel `gorm:"foreignKey:NotificationUserNotificationID;references:NotificationID" json:"-"`
}

func (NotificationUserModel) TableName() string {
	return "notification_users"
}
