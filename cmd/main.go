package main

import (
	"go.uber.org/fx"

	"adinsights/internal/config"
	deliveryhttp "adinsights/internal/delivery/http"
	"adinsights/internal/infrastructure/database"
	"adinsights/internal/infrastructure/logger"
	"adinsights/internal/infrastructure/provider"
	"adinsights/internal/infrastructure/redis"
	"adinsights/internal/infrastructure/repository"
	"adinsights/internal/infrastructure/session"
	"adinsights/internal/infrastructure/token"
	"adinsights/internal/server"
	"adinsights/internal/usecase"
)

func main() {
	fx.New(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		database.Module,
		redis.Module,
		repository.Module,
		provider.Module,
		token.Module,
		session.Module,

		// Business Logic
		usecase.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	).Run()
}
