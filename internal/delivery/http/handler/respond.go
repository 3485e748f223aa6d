package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"adinsights/internal/domain/apperr"
)

// respondError maps the error taxonomy to HTTP responses for authenticated
// dashboard routes. Provider error bodies are echoed here for debugging;
// the open webhook route has its own, stricter mapping.
func respondError(c *fiber.Ctx, err error) error {
	var configErr *apperr.ConfigurationError
	var authErr *apperr.AuthenticationError
	var exchangeErr *apperr.TokenExchangeError
	var refreshErr *apperr.TokenRefreshError
	var notFoundErr *apperr.NotFoundError
	var storageErr *apperr.StorageError

	switch {
	case errors.As(err, &authErr):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFoundErr.Error(),
		})
	case errors.Is(err, apperr.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired state",
		})
	case errors.Is(err, apperr.ErrReauthenticationRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Reconnect your account",
		})
	case errors.As(err, &exchangeErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token exchange failed",
			"details": fiber.Map{
				"provider": exchangeErr.Provider,
				"status":   exchangeErr.StatusCode,
				"body":     exchangeErr.Body,
			},
		})
	case errors.As(err, &refreshErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token refresh failed",
			"details": fiber.Map{
				"provider": refreshErr.Provider,
				"status":   refreshErr.StatusCode,
				"body":     refreshErr.Body,
			},
		})
	case errors.As(err, &configErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Server configuration error",
			"details": fiber.Map{"missing": configErr.Missing},
		})
	case errors.As(err, &storageErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Storage failure",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func respondBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
