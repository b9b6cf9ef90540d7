package route

import (
	"github.com/gofiber/fiber/v2"

	"bookclub_backend/internals/features/home/notifications/controller"
	"bookclub_backend/internals/features/home/notifications/service"
)

func NotificationUserRoutes(user fiber.Router, svc *service.NotificationService) {
	ctrl := controller.NewNotificationUserController(svc)

	notification := user.Group("/notifications")
	notification.Get("/", ctrl.List)
	notification.Post("/:id/read", ctrl.MarkRead)
}
