package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"adinsights/internal/delivery/http/middleware"
	"adinsights/internal/usecase"
)

type InsightsHandler struct {
	usecase usecase.InsightsUsecase
	logger  *zap.Logger
}

func NewInsightsHandler(usecase usecase.InsightsUsecase, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// SearchConsoleData returns keyword/page analytics plus URL inspections for a
// site. Partial failures come back in the payload, not as an error status.
func (h *InsightsHandler) SearchConsoleData(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	siteURL := c.Query("siteUrl")
	if siteURL == "" {
		return respondBadRequest(c, "siteUrl is required")
	}

	data, err := h.usecase.FetchSearchConsoleData(ctx, userID, siteURL, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		h.logger.Error("Failed to fetch search console data",
			zap.String("site_url", siteURL),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	return c.JSON(data)
}

// PerformanceSummary returns the condensed stats block for the overview page.
func (h *InsightsHandler) PerformanceSummary(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	siteURL := c.Query("siteUrl")
	if siteURL == "" {
		return respondBadRequest(c, "siteUrl is required")
	}

	summary, err := h.usecase.FetchPerformanceSummary(ctx, userID, siteURL)
	if err != nil {
		h.logger.Error("Failed to fetch performance summary",
			zap.String("site_url", siteURL),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	return c.JSON(summary)
}
