package configs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"bookclub_backend/internals/helpers/logger"
)

// AppConfig is the typed view of the process environment.
type AppConfig struct {
	Port        string   `mapstructure:"PORT"`
	JWTSecret   string   `mapstructure:"JWT_SECRET"`
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`
	Timezone    string   `mapstructure:"CLUB_TIMEZONE"`

	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	DBMigrate  bool   `mapstructure:"DB_AUTO_MIGRATE"`
	DBSeed     bool   `mapstructure:"DB_SEED"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	ReportSubmitPoints int `mapstructure:"REPORT_SUBMIT_POINTS"`
	DispatchWorkers    int `mapstructure:"DISPATCH_WORKERS"`
	DispatchQueueSize  int `mapstructure:"DISPATCH_QUEUE_SIZE"`
}

var keys = []string{
	"PORT", "JWT_SECRET", "CORS_ORIGINS", "CLUB_TIMEZONE",
	"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME", "DB_SSLMODE", "DB_AUTO_MIGRATE", "DB_SEED",
	"LOG_LEVEL", "LOG_FORMAT",
	"REPORT_SUBMIT_POINTS", "DISPATCH_WORKERS", "DISPATCH_QUEUE_SIZE",
}

// =======================
// ENV LOADER
// =======================

// LoadEnv reads .env into the process environment unless we run on Railway.
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		logger.Info("running in railway, using system env")
		return
	}
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env not found, using system env")
		return
	}
	logger.Info(".env loaded")
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// Load builds AppConfig from env with defaults applied.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("DB_SEED", false)
	v.SetDefault("CLUB_TIMEZONE", "Asia/Seoul")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("REPORT_SUBMIT_POINTS", 10)
	v.SetDefault("DISPATCH_WORKERS", 4)
	v.SetDefault("DISPATCH_QUEUE_SIZE", 256)
	v.AutomaticEnv()

	// Unmarshal only sees keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.DispatchWorkers <= 0 {
		cfg.DispatchWorkers = 1
	}
	if cfg.DispatchQueueSize <= 0 {
		cfg.DispatchQueueSize = 1
	}
	return cfg, nil
}

// DSN keeps statement_timeout aligned with the request timeout in main.
func (c *AppConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=bookclub&options=-c statement_timeout=3000",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		logger.Get().Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		logger.Get().Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		logger.Get().Sugar().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("file", utils.FileWithLineNum()),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && !errors.Is(err, gormLogger.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		logger.Error("query failed", append(fields, zap.Error(err))...)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		logger.Warn("slow sql", fields...)
	case l.LogLevel >= gormLogger.Info:
		logger.Debug("query", fields...)
	}
}
