// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/museum-mailer/internal/handler"
	"github.com/deppfellow/museum-mailer/internal/middleware"
	"github.com/deppfellow/museum-mailer/internal/model"
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with global middleware, system
// routes and the email routes under the configured base path.
//
// Global middleware order matters: request id before the context logger,
// New Relic transaction before anything that reads it, and the request
// logger after the context enhancer so it logs with request fields.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.BodyLimit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)
	registerEmailRoutes(router, s, h, middlewares)

	return router
}

// registerEmailRoutes mounts the visitor email routes.
//
// GET / is public and never looks at the Authorization header; every
// other route loads the session and requires a caller identity.
func registerEmailRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers, m *middleware.Middlewares) {
	email := r.Group(s.Config.Server.BasePath, m.RateLimit.Limit())

	email.GET("", h.Email.Ping)
	email.GET("/", h.Email.Ping)

	auth := []echo.MiddlewareFunc{m.Auth.LoadSession(), m.Auth.RequireAuth}

	email.POST("/test", h.Email.Test, auth...)
	email.POST("/story", handler.HandleRawJSON(h.Email.Handler, h.Email.Story, http.StatusOK, model.NewStoryRequest), auth...)
	email.POST("/audio", handler.HandleRawJSON(h.Email.Handler, h.Email.Audio, http.StatusOK, model.NewAudioRequest), auth...)
}
