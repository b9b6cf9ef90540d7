package controller

import (
	"github.com/gofiber/fiber/v2"

	pointService "bookclub_backend/internals/features/progress/points/service"
	"bookclub_backend/internals/features/progress/progress/model"
	"bookclub_backend/internals/features/progress/progress/service"
	helper "bookclub_backend/internals/helpers"
)

type UserProgressController struct {
	Progress *service.ProgressService
	Points   *pointService.PointService
}

func NewUserProgressController(progress *service.ProgressService, points *pointService.PointService) *UserProgressController {
	return &UserProgressController{Progress: progress, Points: points}
}

// GET /api/u/progress
func (h *UserProgressController) Get(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	p, err := h.Progress.Get(c.UserContext(), userID)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	if p == nil {
		p = &model.UserProgress{UserProgressUserID: userID, UserProgressLevel: 1, UserProgressRank: 1}
	}
	logs, err := h.Points.Logs(c.UserContext(), userID, 20)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"progress":    p,
		"recent_logs": logs,
	})
}
