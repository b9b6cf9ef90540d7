package controller

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bookclub_backend/internals/features/reports/book_reports/dto"
	"bookclub_backend/internals/features/reports/book_reports/model"
	"bookclub_backend/internals/features/reports/book_reports/service"
	helper "bookclub_backend/internals/helpers"
)

// GET /api/a/programs/:program_id/reports?status=&session_id=
func (h *BookReportController) ListForProgram(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	programID, err := helper.ParseUUIDParam(c, "program_id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}

	var f service.ProgramFilter
	if s := strings.ToUpper(strings.TrimSpace(c.Query("status"))); s != "" {
		f.Status = &s
	}
	if s := strings.TrimSpace(c.Query("session_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "session_id 형식이 올바르지 않습니다.")
		}
		f.SessionID = &id
	}

	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := h.Svc.ListForProgram(c.UserContext(), programID, userID, f, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	pg := helper.BuildPagination(total, p.Page, p.PerPage, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

type reviewFn func(ctx context.Context, reportID, reviewerID uuid.UUID, text string) (*model.BookReportModel, error)

func (h *BookReportController) review(c *fiber.Ctx, fn reviewFn, useNote bool, message string) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}

	var req dto.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "요청 형식이 올바르지 않습니다.")
		}
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	text := req.Reason
	if useNote {
		text = req.Note
	}

	r, err := fn(c.UserContext(), id, userID, text)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, message, dto.FromModel(r))
}

// POST /api/a/reports/:id/approve
func (h *BookReportController) Approve(c *fiber.Ctx) error {
	return h.review(c, h.Svc.Approve, true, "독후감을 승인했습니다.")
}

// POST /api/a/reports/:id/reject
func (h *BookReportController) Reject(c *fiber.Ctx) error {
	return h.review(c, h.Svc.Reject, false, "독후감을 반려했습니다.")
}

// POST /api/a/reports/:id/request-revision
func (h *BookReportController) RequestRevision(c *fiber.Ctx) error {
	return h.review(c, h.Svc.RequestRevision, false, "수정을 요청했습니다.")
}
