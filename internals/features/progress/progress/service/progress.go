package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	levelModel "bookclub_backend/internals/features/progress/level_rank/model"
	"bookclub_backend/internals/features/progress/progress/model"
	"bookclub_backend/internals/helpers/logger"
)

type ProgressService struct {
	DB *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{DB: db}
}

// Recompute rebuilds the user's totals from the point ledger and their book reports,
// then derives level and rank from the requirement tables.
func (s *ProgressService) Recompute(ctx context.Context, userID uuid.UUID) error {
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Table("user_point_logs").
		Where("user_point_log_user_id = ?", userID).
		Select("COALESCE(SUM(user_point_log_points), 0)").
		Scan(&total).Error; err != nil {
		return fmt.Errorf("sum points: %w", err)
	}

	var reports int64
	if err := db.Table("book_reports AS r").
		Joins("JOIN members m ON m.member_id = r.book_report_author_id").
		Where("m.member_user_id = ? AND r.book_report_status <> ?", userID, "DRAFT").
		Count(&reports).Error; err != nil {
		return fmt.Errorf("count book reports: %w", err)
	}

	var levels []levelModel.LevelRequirement
	if err := db.Order("level_req_level ASC").Find(&levels).Error; err != nil {
		return fmt.Errorf("load level requirements: %w", err)
	}
	var ranks []levelModel.RankRequirement
	if err := db.Order("rank_req_rank ASC").Find(&ranks).Error; err != nil {
		return fmt.Errorf("load rank requirements: %w", err)
	}

	level := LevelFor(int(total), levels)
	row := model.UserProgress{
		UserProgressUserID:      userID,
		UserProgressTotalPoints: int(total),
		UserProgressReportCount: int(reports),
		UserProgressLevel:       level,
		UserProgressRank:        RankFor(level, ranks),
		LastUpdated:             time.Now(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_progress_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_progress_total_points",
			"user_progress_report_count",
			"user_progress_level",
			"user_progress_rank",
			"last_updated",
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert user_progress: %w", err)
	}

	logger.Debug("progress recomputed",
		zap.String("user_id", userID.String()),
		zap.Int64("points", total),
		zap.Int64("reports", reports),
		zap.Int("level", row.UserProgressLevel),
	)
	return nil
}

// Get returns nil, nil when the user has no progress yet.
func (s *ProgressService) Get(ctx context.Context, userID uuid.UUID) (*model.UserProgress, error) {
	var p model.UserProgress
	err := s.DB.WithContext(ctx).Where("user_progress_user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user_progress: %w", err)
	}
	return &p, nil
}

// LevelFor picks the highest level whose point window contains points. Defaults to 1.
func LevelFor(points int, reqs []levelModel.LevelRequirement) int {
	level := 1
	for _, r := range reqs {
		if points < r.LevelReqMinPoints {
			continue
		}
		if r.LevelReqMaxPoints != nil && points > *r.LevelReqMaxPoints {
			continue
		}
		if r.LevelReqLevel > level {
			level = r.LevelReqLevel
		}
	}
	return level
}

// RankFor picks the highest rank whose level window contains level. Defaults to 1.
func RankFor(level int, reqs []levelModel.RankRequirement) int {
	rank := 1
	for _, r := range reqs {
		if level < r.RankReqMinLevel {
			continue
		}
		if r.RankReqMaxLevel != nil && level > *r.RankReqMaxLevel {
			continue
		}
		if r.RankReqRank > rank {
			rank = r.RankReqRank
		}
	}
	return rank
}
