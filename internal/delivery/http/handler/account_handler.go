package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"adinsights/internal/delivery/http/middleware"
	"adinsights/internal/domain/entity"
	"adinsights/internal/usecase"
)

type AccountHandler struct {
	usecase usecase.AccountUsecase
	logger  *zap.Logger
}

func NewAccountHandler(usecase usecase.AccountUsecase, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// SelectAccountRequest is the body for persisting the current account choice.
type SelectAccountRequest struct {
	Platform  string `json:"platform"`
	AccountID string `json:"accountId"`
}

func (h *AccountHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	accounts, err := h.usecase.ListAccounts(ctx, userID, c.Query("platform"))
	if err != nil {
		h.logger.Error("Failed to list accounts", zap.Error(err))
		return respondError(c, err)
	}

	if accounts == nil {
		accounts = []entity.LinkedAccount{}
	}

	return c.JSON(fiber.Map{
		"accounts": accounts,
	})
}

func (h *AccountHandler) SelectedAccount(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	platform := c.Query("platform")
	if platform == "" {
		return respondBadRequest(c, "platform is required")
	}

	pref, err := h.usecase.SelectedAccount(ctx, userID, platform)
	if err != nil {
		h.logger.Error("Failed to read selected account", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"preference": pref,
	})
}

func (h *AccountHandler) SelectAccount(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	var req SelectAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if req.Platform == "" || req.AccountID == "" {
		return respondBadRequest(c, "platform and accountId are required")
	}

	if err := h.usecase.SelectAccount(ctx, userID, req.Platform, req.AccountID); err != nil {
		h.logger.Error("Failed to persist selected account", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
