package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bookclub_backend/internals/features/reports/templates/controller"
	"bookclub_backend/internals/features/reports/templates/repository"
	"bookclub_backend/internals/features/reports/templates/service"
)

func NewService(db *gorm.DB) *service.ReportTemplateService {
	return service.NewReportTemplateService(repository.NewReportTemplateRepository(db))
}

// ReportTemplateUserRoutes: /api/u/report-templates
func ReportTemplateUserRoutes(r fiber.Router, svc *service.ReportTemplateService) {
	ctrl := controller.NewReportTemplateController(svc)
	g := r.Group("/report-templates")
	g.Get("/", ctrl.List)
	g.Get("/:code", ctrl.Get)
}

// ReportTemplateAdminRoutes: /api/a/report-templates
func ReportTemplateAdminRoutes(r fiber.Router, svc *service.ReportTemplateService, guards ...fiber.Handler) {
	ctrl := controller.NewReportTemplateController(svc)
	r.Post("/report-templates", append(guards, ctrl.Create)...)
}
