package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookclub_backend/internals/features/progress/points/model"
	progressModel "bookclub_backend/internals/features/progress/progress/model"
	"bookclub_backend/internals/helpers/logger"
)

type PointService struct {
	DB *gorm.DB
}

func NewPointService(db *gorm.DB) *PointService {
	return &PointService{DB: db}
}

// Credit appends a ledger entry and bumps the user's running total in one transaction.
func (s *PointService) Credit(ctx context.Context, userID uuid.UUID, amount int, category, description string) error {
	if amount == 0 {
		return nil
	}
	now := time.Now()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := model.UserPointLog{
			UserPointLogUserID:      userID,
			UserPointLogPoints:      amount,
			UserPointLogCategory:    category,
			UserPointLogDescription: description,
			CreatedAt:               now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("insert user_point_log: %w", err)
		}

		row := progressModel.UserProgress{
			UserProgressUserID:      userID,
			UserProgressTotalPoints: amount,
			UserProgressLevel:       1,
			UserProgressRank:        1,
			LastUpdated:             now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_progress_user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"user_progress_total_points": gorm.Expr("user_progress.user_progress_total_points + ?", amount),
				"last_updated":               now,
			}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("upsert user_progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug("points credited",
		zap.String("user_id", userID.String()),
		zap.Int("points", amount),
		zap.String("category", category),
	)
	return nil
}

// Logs returns the most recent ledger entries of userID.
func (s *PointService) Logs(ctx context.Context, userID uuid.UUID, limit int) ([]model.UserPointLog, error) {
	var rows []model.UserPointLog
	if err := s.DB.WithContext(ctx).
		Where("user_point_log_user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list point logs: %w", err)
	}
	return rows, nil
}
