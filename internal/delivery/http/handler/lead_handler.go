package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"adinsights/internal/delivery/http/middleware"
	"adinsights/internal/domain/entity"
	"adinsights/internal/usecase"
)

type LeadHandler struct {
	usecase usecase.LeadUsecase
	logger  *zap.Logger
}

func NewLeadHandler(usecase usecase.LeadUsecase, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// AddRemarkRequest is the body for attaching a note to a lead.
type AddRemarkRequest struct {
	Remark string `json:"remark"`
}

func (h *LeadHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	leads, err := h.usecase.ListLeads(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to list leads", zap.Error(err))
		return respondError(c, err)
	}

	if leads == nil {
		leads = []entity.Lead{}
	}

	return c.JSON(fiber.Map{
		"leads": leads,
	})
}

func (h *LeadHandler) AddRemark(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	leadID := c.Params("id")

	var req AddRemarkRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if req.Remark == "" {
		return respondBadRequest(c, "remark is required")
	}

	remark, err := h.usecase.AddRemark(ctx, userID, leadID, req.Remark)
	if err != nil {
		h.logger.Error("Failed to add remark", zap.String("lead_id", leadID), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"remark":  remark,
	})
}

func (h *LeadHandler) ListRemarks(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	leadID := c.Params("id")

	remarks, err := h.usecase.ListRemarks(ctx, userID, leadID)
	if err != nil {
		h.logger.Error("Failed to list remarks", zap.String("lead_id", leadID), zap.Error(err))
		return respondError(c, err)
	}

	if remarks == nil {
		remarks = []entity.LeadRemark{}
	}

	return c.JSON(fiber.Map{
		"remarks": remarks,
	})
}
