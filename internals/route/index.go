package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bookclub_backend/internals/configs"
	"bookclub_backend/internals/constants"
	notificationRoute "bookclub_backend/internals/features/home/notifications/route"
	notificationService "bookclub_backend/internals/features/home/notifications/service"
	"bookclub_backend/internals/features/programs/access"
	depositRoute "bookclub_backend/internals/features/programs/deposits/route"
	depositService "bookclub_backend/internals/features/programs/deposits/service"
	programService "bookclub_backend/internals/features/programs/service"
	dailyService "bookclub_backend/internals/features/progress/daily_activities/service"
	pointService "bookclub_backend/internals/features/progress/points/service"
	progressRoute "bookclub_backend/internals/features/progress/progress/route"
	progressService "bookclub_backend/internals/features/progress/progress/service"
	reportRepository "bookclub_backend/internals/features/reports/book_reports/repository"
	reportRoute "bookclub_backend/internals/features/reports/book_reports/route"
	reportService "bookclub_backend/internals/features/reports/book_reports/service"
	templateRoute "bookclub_backend/internals/features/reports/templates/route"
	userService "bookclub_backend/internals/features/users/user/service"
	"bookclub_backend/internals/helpers/dbtime"
	"bookclub_backend/internals/helpers/dispatch"
	"bookclub_backend/internals/helpers/logger"
	middlewares "bookclub_backend/internals/middlewares"
	authMiddleware "bookclub_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *configs.AppConfig, disp *dispatch.Dispatcher) {
	startTime = time.Now()

	BaseRoutes(app, db, disp)

	// ===================== COLLABORATORS =====================
	users := userService.NewUserService(db)
	programs := programService.NewProgramDirectory(db)
	reviewers := access.ReviewerPolicy{Roles: users, Organizers: programs}

	templates := templateRoute.NewService(db)
	notifications := notificationService.NewNotificationService(db)
	points := pointService.NewPointService(db)
	progress := progressService.NewProgressService(db)
	daily := dailyService.NewDailyActivityService(db, dbtime.LoadLocation(cfg.Timezone))

	reports := reportService.NewBookReportService(reportService.Deps{
		Store:        reportRepository.NewBookReportRepository(db),
		Members:      programs,
		Sessions:     programs,
		Reviewers:    reviewers,
		Templates:    templates,
		Notifier:     notifications,
		Points:       points,
		Recomputers:  []reportService.Recomputer{progress, daily},
		Dispatcher:   disp,
		SubmitPoints: cfg.ReportSubmitPoints,
	})
	deposits := depositService.NewDepositService(programs, reviewers)

	// ===================== GROUPS =====================
	auth := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              cfg.JWTSecret,
		AllowCookieFallback: true,
	})

	// USER: any signed-in member
	logger.Info("setting up /api/u")
	user := app.Group("/api/u", auth)

	// ADMIN: reviewer rights are per program (organizers included) and checked in the services
	logger.Info("setting up /api/a")
	admin := app.Group("/api/a", auth)

	// platform admins only; applied per route so organizers keep /api/a
	platformOnly := authMiddleware.OnlyRoles("관리자만 접근할 수 있습니다.", constants.AdminRoles...)

	// ===================== MOUNT ROUTES =====================
	templateRoute.ReportTemplateUserRoutes(user, templates)
	templateRoute.ReportTemplateAdminRoutes(admin, templates, platformOnly)

	reportRoute.BookReportUserRoutes(user, reports, middlewares.SubmitRateLimiter())
	reportRoute.BookReportAdminRoutes(admin, reports)

	depositRoute.DepositUserRoutes(user, deposits)
	depositRoute.DepositAdminRoutes(admin, deposits)

	notificationRoute.NotificationUserRoutes(user, notifications)
	progressRoute.UserProgressRoutes(user, progress, points)
}
