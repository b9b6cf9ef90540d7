package model

import (
	"time"

	"github.com/google/uuid"
)

// Point categories.
const (
	CategoryBookReport = "BOOK_REPORT"
)

type UserPointLog struct {
	UserPointLogID          uint       `gorm:"column:user_point_log_id;primaryKey" json:"user_point_log_id"`
	UserPointLogUserID      uuid.UUID  `gorm:"column:user_point_log_user_id;type:uuid;not null;index" json:"user_point_log_user_id"`
	UserPointLogPoints      int        `gorm:"column:user_point_log_points;not null" json:"user_point_log_points"`
	UserPointLogCategory    string     `gorm:"column:user_point_log_category;type:varchar(40);not null" json:"user_point_log_category"`
	UserPointLogDescription string     `gorm:"column:user_point_log_description;type:text" json:"user_point_log_description"`
	UserPointLogSourceID    *uuid.UUID `gorm:"column:user_point_log_source_id;type:uuid" json:"user_point_log_source_id,omitempty"`
	CreatedAt               time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserPointLog) TableName() string {
	return "user_point_logs"
}
