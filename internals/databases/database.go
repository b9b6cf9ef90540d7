package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bookclub_backend/internals/configs"
	notificationModel "bookclub_backend/internals/features/home/notifications/model"
	programModel "bookclub_backend/internals/features/programs/model"
	dailyModel "bookclub_backend/internals/features/progress/daily_activities/model"
	levelModel "bookclub_backend/internals/features/progress/level_rank/model"
	pointModel "bookclub_backend/internals/features/progress/points/model"
	progressModel "bookclub_backend/internals/features/progress/progress/model"
	reportModel "bookclub_backend/internals/features/reports/book_reports/model"
	templateModel "bookclub_backend/internals/features/reports/templates/model"
	userModel "bookclub_backend/internals/features/users/user/model"
	"bookclub_backend/internals/helpers/logger"
)

var DB *gorm.DB

// ConnectDB opens the pool. PreferSimpleProtocol keeps it usable behind PgBouncer transaction pooling.
func ConnectDB(cfg *configs.AppConfig) (*gorm.DB, error) {
	logger.Info("connecting to postgres", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	DB = db
	logger.Info("db connected")
	return db, nil
}

func TunePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("pool tune: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// WarmUp pings in the background so the first request does not pay for the handshake.
func WarmUp(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx, db); err != nil {
			logger.Warn("warm-up ping failed", zap.Error(err))
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&programModel.MemberModel{},
		&programModel.ProgramModel{},
		&programModel.ProgramSessionModel{},
		&programModel.ProgramParticipantModel{},
		&programModel.ProgramAttendanceModel{},
		&programModel.ProgramDepositSettingModel{},
		&templateModel.ReportTemplateModel{},
		&reportModel.BookReportModel{},
		&reportModel.StructuredBookReportModel{},
		&reportModel.BookReportReviewModel{},
		&notificationModel.NotificationModel{},
		&notificationModel.NotificationUserModel{},
		&pointModel.UserPointLog{},
		&progressModel.UserProgress{},
		&levelModel.LevelRequirement{},
		&levelModel.RankRequirement{},
		&dailyModel.UserDailyActivity{},
	}
}

// Migrate runs AutoMigrate for all models; only called when DB_AUTO_MIGRATE is on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("schema migrated", zap.Int("tables", len(Models())))
	return nil
}
