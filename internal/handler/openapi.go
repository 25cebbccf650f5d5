package handler

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed static/openapi.json static/openapi.html
var staticFS embed.FS

// OpenAPIHandler serves the OpenAPI document and a small UI to try the API.
//
// Both files are embedded in the binary. The document's server URL is
// set to the configured base path when first requested.
type OpenAPIHandler struct {
	Handler

	once sync.Once
	spec []byte
	err  error
}

// NewOpenAPIHandler constructs an OpenAPIHandler with access to shared dependencies.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPISpec writes the OpenAPI JSON document.
func (h *OpenAPIHandler) ServeOpenAPISpec(c echo.Context) error {
	h.once.Do(func() {
		h.spec, h.err = h.buildSpec()
	})
	if h.err != nil {
		return h.err
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.JSONBlob(http.StatusOK, h.spec)
}

// ServeOpenAPIUI serves the docs UI page, which loads the document above.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := staticFS.ReadFile("static/openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTMLBlob(http.StatusOK, page); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}

func (h *OpenAPIHandler) buildSpec() ([]byte, error) {
	raw, err := staticFS.ReadFile("static/openapi.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI document: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}

	doc["servers"] = []map[string]string{
		{"url": h.server.Config.Server.BasePath},
	}

	return json.Marshal(doc)
}
