package router

import (
	"github.com/deppfellow/museum-mailer/internal/handler"
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the email
// API: health status, metrics and API docs.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	if obs := s.Config.Observability; obs != nil && obs.Metrics.Enabled && s.Metrics != nil {
		r.GET(obs.Metrics.Path, echo.WrapHandler(s.Metrics.Handler()))
	}

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	r.GET("/docs/openapi.json", h.OpenAPI.ServeOpenAPISpec)

	if obs := s.Config.Observability; obs == nil || !obs.IsProduction() {
		r.GET("/docs/emails/:template", h.Preview.ServeTemplate)
	}
}
