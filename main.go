package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"

	"bookclub_backend/internals/configs"
	database "bookclub_backend/internals/databases"
	helper "bookclub_backend/internals/helpers"
	"bookclub_backend/internals/helpers/dispatch"
	"bookclub_backend/internals/helpers/logger"
	middlewares "bookclub_backend/internals/middlewares"
	routes "bookclub_backend/internals/route"
	"bookclub_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	cfg, err := configs.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		logger.Fatal("logger init", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		// handlers answer through the JSON envelope; this only sees errors returned raw
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.JsonServiceError(c, err)
		},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app, cfg)

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	if err := database.TunePool(db); err != nil {
		logger.Warn("db pool", zap.Error(err))
	}
	if cfg.DBMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}
	if cfg.DBSeed {
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := seeds.RunAllSeeds(seedCtx, db)
		cancel()
		if err != nil {
			logger.Fatal("db seed", zap.Error(err))
		}
	}
	database.WarmUp(db)

	disp := dispatch.New(dispatch.Options{
		Workers:   cfg.DispatchWorkers,
		QueueSize: cfg.DispatchQueueSize,
		Logger:    logger.Named("dispatch"),
	})

	routes.SetupRoutes(app, db, cfg, disp)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	// let in-flight side effects finish before the pool goes away
	if err := disp.Close(ctx); err != nil {
		logger.Warn("dispatcher drain", zap.Error(err))
	}
	logger.Info("dispatcher stopped", zap.Any("stats", disp.Stats()))

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
