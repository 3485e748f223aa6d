package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"adinsights/internal/delivery/http/middleware"
	"adinsights/internal/domain/entity"
	"adinsights/internal/usecase"
)

type OAuthHandler struct {
	usecase usecase.OAuthUsecase
	logger  *zap.Logger
}

func NewOAuthHandler(usecase usecase.OAuthUsecase, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// ExchangeCodeRequest is the body posted by the dashboard's OAuth callback page.
type ExchangeCodeRequest struct {
	Action      string `json:"action"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
	State       string `json:"state"`
}

// Authorize returns the provider consent URL carrying a fresh single-use
// state nonce.
func (h *OAuthHandler) Authorize(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	p, err := entity.ParseProvider(c.Params("provider"))
	if err != nil {
		return respondBadRequest(c, "Unknown provider")
	}

	redirectURI := c.Query("redirectUri")
	if redirectURI == "" {
		return respondBadRequest(c, "redirectUri is required")
	}

	authURL, err := h.usecase.AuthorizeURL(ctx, userID, p, redirectURI)
	if err != nil {
		h.logger.Error("Failed to build authorize URL", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"authUrl": authURL,
	})
}

// Exchange trades the callback's authorization code for stored tokens. The
// tokens themselves never appear in the response.
func (h *OAuthHandler) Exchange(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	p, err := entity.ParseProvider(c.Params("provider"))
	if err != nil {
		return respondBadRequest(c, "Unknown provider")
	}

	var req ExchangeCodeRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Error("Failed to parse request body", zap.Error(err))
		return respondBadRequest(c, "Invalid request body")
	}

	if req.Action != "exchange_code" {
		return respondBadRequest(c, "Unsupported action")
	}
	if req.Code == "" {
		return respondBadRequest(c, "code is required")
	}
	if req.RedirectURI == "" {
		return respondBadRequest(c, "redirectUri is required")
	}

	if err := h.usecase.Exchange(ctx, userID, p, req.Code, req.RedirectURI, req.State); err != nil {
		h.logger.Error("Failed to exchange authorization code",
			zap.String("provider", string(p)),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// Status reports whether the user holds a credential for the provider.
func (h *OAuthHandler) Status(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	p, err := entity.ParseProvider(c.Params("provider"))
	if err != nil {
		return respondBadRequest(c, "Unknown provider")
	}

	status, err := h.usecase.Status(ctx, userID, p)
	if err != nil {
		h.logger.Error("Failed to read connection status", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(status)
}
