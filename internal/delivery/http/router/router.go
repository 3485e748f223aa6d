package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"adinsights/internal/config"
	"adinsights/internal/delivery/http/handler"
	authmw "adinsights/internal/delivery/http/middleware"
	"adinsights/internal/infrastructure/session"
)

type Router struct {
	app             *fiber.App
	config          *config.Config
	sessionVerifier session.Verifier
	zapLogger       *zap.Logger
	oauthHandler    *handler.OAuthHandler
	insightsHandler *handler.InsightsHandler
	webhookHandler  *handler.WebhookHandler
	leadHandler     *handler.LeadHandler
	accountHandler  *handler.AccountHandler
	healthHandler   *handler.HealthHandler
}

func NewRouter(
	cfg *config.Config,
	sessionVerifier session.Verifier,
	zapLogger *zap.Logger,
	oauthHandler *handler.OAuthHandler,
	insightsHandler *handler.InsightsHandler,
	webhookHandler *handler.WebhookHandler,
	leadHandler *handler.LeadHandler,
	accountHandler *handler.AccountHandler,
	healthHandler *handler.HealthHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
	})

	return &Router{
		app:             app,
		config:          cfg,
		sessionVerifier: sessionVerifier,
		zapLogger:       zapLogger,
		oauthHandler:    oauthHandler,
		insightsHandler: insightsHandler,
		webhookHandler:  webhookHandler,
		leadHandler:     leadHandler,
		accountHandler:  accountHandler,
		healthHandler:   healthHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check route
	r.app.Get("/health", r.healthHandler.Health)

	// Form webhook (external websites post here; form_id is the capability)
	r.app.Post("/webhook/form", r.webhookHandler.FormSubmission)

	// API v1 routes (dashboard session required)
	api := r.app.Group("/api/v1", authmw.NewAuth(r.sessionVerifier, r.zapLogger))
	{
		oauth := api.Group("/oauth/:provider")
		{
			oauth.Get("/authorize", r.oauthHandler.Authorize)
			oauth.Post("/exchange", r.oauthHandler.Exchange)
			oauth.Get("/status", r.oauthHandler.Status)
		}

		searchconsole := api.Group("/searchconsole")
		{
			searchconsole.Get("/data", r.insightsHandler.SearchConsoleData)
			searchconsole.Get("/summary", r.insightsHandler.PerformanceSummary)
		}

		api.Get("/accounts", r.accountHandler.List)
		api.Get("/preferences/selected-account", r.accountHandler.SelectedAccount)
		api.Put("/preferences/selected-account", r.accountHandler.SelectAccount)

		leads := api.Group("/leads")
		{
			leads.Get("", r.leadHandler.List)
			leads.Get("/:id/remarks", r.leadHandler.ListRemarks)
			leads.Post("/:id/remarks", r.leadHandler.AddRemark)
		}
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
