package controller

import (
	"github.com/gofiber/fiber/v2"

	"bookclub_backend/internals/features/programs/deposits/service"
	helper "bookclub_backend/internals/helpers"
)

type DepositController struct {
	Svc *service.DepositService
}

func NewDepositController(svc *service.DepositService) *DepositController {
	return &DepositController{Svc: svc}
}

// GET /api/a/programs/:program_id/deposit/eligibility
func (h *DepositController) Overview(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	programID, err := helper.ParseUUIDParam(c, "program_id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	ov, err := h.Svc.Overview(c.UserContext(), programID, userID)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", ov)
}

// GET /api/u/programs/:program_id/deposit/eligibility/me
func (h *DepositController) Mine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	programID, err := helper.ParseUUIDParam(c, "program_id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	ov, err := h.Svc.Mine(c.UserContext(), programID, userID)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", ov)
}
