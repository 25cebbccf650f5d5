package handler

import (
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/deppfellow/museum-mailer/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router
// setup passes one object around instead of many.
type Handlers struct {
	Email   *EmailHandler   // Email serves the visitor email routes.
	Health  *HealthHandler  // Health serves service health endpoints.
	OpenAPI *OpenAPIHandler // OpenAPI serves API documentation.
	Preview *PreviewHandler // Preview renders email templates with sample data.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Email:   NewEmailHandler(s, services.Mail),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Preview: NewPreviewHandler(s),
	}
}
