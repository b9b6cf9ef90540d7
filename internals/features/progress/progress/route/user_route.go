package route

import (
	"github.com/gofiber/fiber/v2"

	pointService "bookclub_backend/internals/features/progress/points/service"
	"bookclub_backend/internals/features/progress/progress/controller"
	"bookclub_backend/internals/features/progress/progress/service"
)

func UserProgressRoutes(user fiber.Router, progress *service.ProgressService, points *pointService.PointService) {
	ctrl := controller.NewUserProgressController(progress, points)
	user.Get("/progress", ctrl.Get)
}
