package http

import (
	"go.uber.org/fx"

	"adinsights/internal/delivery/http/handler"
	"adinsights/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewOAuthHandler,
		handler.NewInsightsHandler,
		handler.NewWebhookHandler,
		handler.NewLeadHandler,
		handler.NewAccountHandler,
		handler.NewHealthHandler,
		router.NewRouter,
	),
)
