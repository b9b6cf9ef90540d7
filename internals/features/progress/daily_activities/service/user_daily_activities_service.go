package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookclub_backend/internals/features/progress/daily_activities/model"
	"bookclub_backend/internals/helpers/dbtime"
)

type DailyActivityService struct {
	DB  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewDailyActivityService counts days in loc, the club's timezone.
func NewDailyActivityService(db *gorm.DB, loc *time.Location) *DailyActivityService {
	return &DailyActivityService{DB: db, loc: loc, now: time.Now}
}

// Recompute records activity for today and extends the reading streak.
func (s *DailyActivityService) Recompute(ctx context.Context, userID uuid.UUID) error {
	today := dbtime.DayIn(s.now(), s.loc)

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last model.UserDailyActivity
		err := tx.
			Where("user_daily_activity_user_id = ?", userID).
			Order("user_daily_activity_activity_date DESC").
			First(&last).Error
		var prev *model.UserDailyActivity
		switch {
		case err == nil:
			prev = &last
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("load last activity: %w", err)
		}

		if prev != nil && dayOf(prev.UserDailyActivityActivityDate).Equal(today) {
			return nil
		}

		row := model.UserDailyActivity{
			UserDailyActivityUserID:       userID,
			UserDailyActivityActivityDate: today,
			UserDailyActivityAmountDay:    NextStreak(prev, today),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("insert daily activity: %w", err)
		}
		return nil
	})
}

// NextStreak continues the streak when the last activity was exactly yesterday.
func NextStreak(last *model.UserDailyActivity, today time.Time) int {
	if last == nil {
		return 1
	}
	if dayOf(last.UserDailyActivityActivityDate).AddDate(0, 0, 1).Equal(dayOf(today)) {
		return last.UserDailyActivityAmountDay + 1
	}
	return 1
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
