package route

import (
	"github.com/gofiber/fiber/v2"

	"bookclub_backend/internals/features/reports/book_reports/controller"
	"bookclub_backend/internals/features/reports/book_reports/service"
)

// BookReportUserRoutes: submission and author edits under /api/u.
// limiter, when given, guards the write endpoints.
func BookReportUserRoutes(user fiber.Router, svc *service.BookReportService, limiter ...fiber.Handler) {
	ctrl := controller.NewBookReportController(svc)
	write := func(h fiber.Handler) []fiber.Handler { return append(append([]fiber.Handler{}, limiter...), h) }

	user.Post("/programs/:program_id/sessions/:session_id/reports", write(ctrl.Submit)...)

	reports := user.Group("/reports")
	reports.Get("/mine", ctrl.ListMine)
	reports.Get("/:id", ctrl.Get)
	reports.Patch("/:id", write(ctrl.Update)...)
	reports.Post("/:id/resubmit", write(ctrl.Resubmit)...)
}

// BookReportAdminRoutes: reviewer listing and transitions under /api/a.
func BookReportAdminRoutes(admin fiber.Router, svc *service.BookReportService) {
	ctrl := controller.NewBookReportController(svc)

	admin.Get("/programs/:program_id/reports", ctrl.ListForProgram)

	reports := admin.Group("/reports")
	reports.Post("/:id/approve", ctrl.Approve)
	reports.Post("/:id/reject", ctrl.Reject)
	reports.Post("/:id/request-revision", ctrl.RequestRevision)
}
