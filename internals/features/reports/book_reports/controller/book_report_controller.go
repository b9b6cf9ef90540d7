package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bookclub_backend/internals/features/reports/book_reports/dto"
	"bookclub_backend/internals/features/reports/book_reports/service"
	helper "bookclub_backend/internals/helpers"
)

type BookReportController struct {
	Svc      *service.BookReportService
	Validate *validator.Validate
}

func NewBookReportController(svc *service.BookReportService) *BookReportController {
	return &BookReportController{Svc: svc, Validate: validator.New()}
}

// POST /api/u/programs/:program_id/sessions/:session_id/reports
func (h *BookReportController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	programID, err := helper.ParseUUIDParam(c, "program_id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	sessionID, err := helper.ParseUUIDParam(c, "session_id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}

	var req dto.SubmitBookReportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "요청 형식이 올바르지 않습니다.")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonServiceError(c, err)
	}

	view, err := h.Svc.Submit(c.UserContext(), req.ToInput(programID, sessionID, userID))
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "독후감이 제출되었습니다.", dto.FromView(view))
}

// GET /api/u/reports/:id
func (h *BookReportController) Get(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	view, err := h.Svc.Get(c.UserContext(), id, userID)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromView(view))
}

// GET /api/u/reports/mine?program_id=
func (h *BookReportController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var programID *uuid.UUID
	if s := strings.TrimSpace(c.Query("program_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "program_id 형식이 올바르지 않습니다.")
		}
		programID = &id
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := h.Svc.ListMine(c.UserContext(), userID, programID, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	pg := helper.BuildPagination(total, p.Page, p.PerPage, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

// PATCH /api/u/reports/:id
func (h *BookReportController) Update(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}

	var req dto.UpdateBookReportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "요청 형식이 올바르지 않습니다.")
	}
	view, err := h.Svc.Update(c.UserContext(), id, userID, req.ToInput())
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "독후감이 수정되었습니다.", dto.FromView(view))
}

// POST /api/u/reports/:id/resubmit
func (h *BookReportController) Resubmit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	r, err := h.Svc.Resubmit(c.UserContext(), id, userID)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "독후감이 다시 제출되었습니다.", dto.FromModel(r))
}
