package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"bookclub_backend/internals/features/reports/templates/dto"
	"bookclub_backend/internals/features/reports/templates/service"
	helper "bookclub_backend/internals/helpers"
)

type ReportTemplateController struct {
	Svc *service.ReportTemplateService
}

func NewReportTemplateController(svc *service.ReportTemplateService) *ReportTemplateController {
	return &ReportTemplateController{Svc: svc}
}

// GET /api/u/report-templates?category=
func (h *ReportTemplateController) List(c *fiber.Ctx) error {
	var category *string
	if s := strings.TrimSpace(c.Query("category")); s != "" {
		category = &s
	}
	rows, err := h.Svc.ListTemplates(c.UserContext(), category)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), nil)
}

// GET /api/u/report-templates/:code
func (h *ReportTemplateController) Get(c *fiber.Ctx) error {
	m, err := h.Svc.GetModel(c.UserContext(), strings.TrimSpace(c.Params("code")))
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// POST /api/a/report-templates
func (h *ReportTemplateController) Create(c *fiber.Ctx) error {
	var req dto.CreateReportTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "요청 형식이 올바르지 않습니다.")
	}
	m, err := h.Svc.CreateVersion(c.UserContext(), req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "템플릿이 등록되었습니다.", dto.FromModel(m))
}
