package route

import (
	"github.com/gofiber/fiber/v2"

	"bookclub_backend/internals/features/programs/deposits/controller"
	"bookclub_backend/internals/features/programs/deposits/service"
)

// DepositUserRoutes: /api/u/programs/:program_id/deposit
func DepositUserRoutes(user fiber.Router, svc *service.DepositService) {
	ctrl := controller.NewDepositController(svc)
	user.Get("/programs/:program_id/deposit/eligibility/me", ctrl.Mine)
}

// DepositAdminRoutes: /api/a/programs/:program_id/deposit
func DepositAdminRoutes(admin fiber.Router, svc *service.DepositService) {
	ctrl := controller.NewDepositController(svc)
	admin.Get("/programs/:program_id/deposit/eligibility", ctrl.Overview)
}
