package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/chatshell-api/internal/config"
	"github.com/noah-isme/chatshell-api/internal/handler"
	"github.com/noah-isme/chatshell-api/internal/middleware"
	"github.com/noah-isme/chatshell-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	WorkspaceHandler *handler.WorkspaceHandler
	ChannelHandler   *handler.ChannelHandler
	MemberHandler    *handler.MemberHandler
	ThreadHandler    *handler.ThreadHandler
	InsightsHandler  *handler.InsightsHandler
	VitalsHandler    *handler.VitalsHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.WorkspaceHandler != nil {
		deps.WorkspaceHandler.Register(api)
	}
	if deps.ChannelHandler != nil {
		deps.ChannelHandler.Register(api)
	}
	if deps.MemberHandler != nil {
		deps.MemberHandler.Register(api)
	}
	if deps.ThreadHandler != nil {
		deps.ThreadHandler.Register(api)
	}
	if deps.InsightsHandler != nil {
		deps.InsightsHandler.Register(api)
	}

	// Browsers report vitals on every navigation, so ingest is throttled per client.
	if deps.VitalsHandler != nil {
		deps.VitalsHandler.Register(api, middleware.RateLimit("vitals", cfg.VitalsRateLimit, cfg.VitalsRateWindow))
	}
}
