package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/deppfellow/museum-mailer/internal/lib/email"
	"github.com/deppfellow/museum-mailer/internal/middleware"
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler exposes a "system" endpoint that load balancers and uptime
// monitors use to verify the service is alive and its provider reachable.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns system health status and dependency checks.
//
// Response includes:
// - overall status (healthy/unhealthy)
// - timestamp (UTC)
// - environment (from config)
// - checks map (email provider)
//
// It returns:
// - 200 OK if all checks pass
// - 503 Service Unavailable if any check fails
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	// ---------------- Email provider check -----------------------------------
	if h.shouldCheck("email") {
		pinger, ok := h.server.Email.(email.Pinger)
		if !ok {
			checks["email"] = map[string]interface{}{
				"status":   "skipped",
				"provider": h.server.Config.Email.Provider,
			}
		} else {
			ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
			defer cancel()

			emailStart := time.Now()

			if err := pinger.Ping(ctx); err != nil {
				checks["email"] = map[string]interface{}{
					"status":        "unhealthy",
					"provider":      h.server.Config.Email.Provider,
					"response_time": time.Since(emailStart).String(),
				}

				isHealthy = false

				logger.Error().
					Err(err).
					Dur("response_time", time.Since(emailStart)).
					Msg("email provider health check failed")

				h.recordHealthCheckError(map[string]interface{}{
					"check_type":       "email",
					"operation":        "health_check",
					"error_type":       "email_unhealthy",
					"response_time_ms": time.Since(emailStart).Milliseconds(),
					"error_message":    err.Error(),
				})
			} else {
				checks["email"] = map[string]interface{}{
					"status":        "healthy",
					"provider":      h.server.Config.Email.Provider,
					"response_time": time.Since(emailStart).String(),
				}

				logger.Info().
					Dur("response_time", time.Since(emailStart)).
					Msg("email provider health check passed")
			}
		}
	}

	// ---------------- Overall status + response ------------------------------
	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":    "response",
			"operation":     "health_check",
			"error_type":    "json_response_error",
			"error_message": err.Error(),
		})

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) shouldCheck(name string) bool {
	obs := h.server.Config.Observability
	if obs == nil || !obs.HealthChecks.Enabled {
		return false
	}
	return slices.Contains(obs.HealthChecks.Checks, name)
}

// recordHealthCheckError records a New Relic custom event if enabled.
func (h *HealthHandler) recordHealthCheckError(attrs map[string]interface{}) {
	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
	}
}
