package controller

import (
	"github.com/gofiber/fiber/v2"

	"bookclub_backend/internals/features/home/notifications/dto"
	"bookclub_backend/internals/features/home/notifications/service"
	helper "bookclub_backend/internals/helpers"
)

type NotificationUserController struct {
	Svc *service.NotificationService
}

func NewNotificationUserController(svc *service.NotificationService) *NotificationUserController {
	return &NotificationUserController{Svc: svc}
}

// GET /api/u/notifications?unread=true&page=&per_page=
func (h *NotificationUserController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := h.Svc.ListForUser(c.UserContext(), userID, c.QueryBool("unread"), p.Offset, p.Limit)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	pg := helper.BuildPagination(total, p.Page, p.PerPage, len(rows))
	return helper.JsonList(c, "ok", dto.ToUserNotificationResponseList(rows), &pg)
}

// POST /api/u/notifications/:id/read
func (h *NotificationUserController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	if err := h.Svc.MarkRead(c.UserContext(), userID, id); err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "알림을 읽음으로 표시했습니다.", fiber.Map{"notification_users_id": id})
}
