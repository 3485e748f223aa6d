package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
	"adinsights/internal/usecase"
)

type WebhookHandler struct {
	usecase usecase.LeadUsecase
	logger  *zap.Logger
}

func NewWebhookHandler(usecase usecase.LeadUsecase, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// FormSubmission receives form submissions posted by external websites. The
// route is unauthenticated; the form id is the only capability. Responses
// never carry storage internals.
func (h *WebhookHandler) FormSubmission(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var sub entity.LeadSubmission
	if err := c.BodyParser(&sub); err != nil {
		h.logger.Warn("Failed to parse webhook payload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	leadID, err := h.usecase.Ingest(ctx, &sub)
	if err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Form not found",
			})
		}

		h.logger.Error("Failed to ingest lead",
			zap.String("form_id", sub.FormID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save lead",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"leadId":  leadID,
	})
}
