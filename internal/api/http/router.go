package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/zammad-bridge/internal/api/http/handlers"
	"github.com/spec-kit/zammad-bridge/pkg/notify"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Webhook *notify.WebhookHandler
}

// RegisterRoutes wires HTTP routes. The webhook route is mounted only
// when webhook ingestion is enabled.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.Webhook != nil {
		app.Post(cfg.Webhook.Path(), cfg.Webhook.Handle)
	}
}
