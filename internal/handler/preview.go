package handler

import (
	"net/http"
	"sync"

	"github.com/deppfellow/museum-mailer/internal/errs"
	"github.com/deppfellow/museum-mailer/internal/lib/email"
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PreviewHandler renders the embedded email templates with sample data.
type PreviewHandler struct {
	Handler

	once     sync.Once
	renderer *email.Renderer
	err      error
}

// NewPreviewHandler constructs a PreviewHandler.
func NewPreviewHandler(s *server.Server) *PreviewHandler {
	return &PreviewHandler{
		Handler: NewHandler(s),
	}
}

// ServeTemplate writes the HTML of the template named in the path.
func (h *PreviewHandler) ServeTemplate(c echo.Context) error {
	h.once.Do(func() {
		h.renderer, h.err = email.NewRenderer()
	})
	if h.err != nil {
		return h.err
	}

	html, err := h.renderer.Preview(email.Template(c.Param("template")))
	if errors.Is(err, email.ErrUnknownTemplate) {
		return errs.NewNotFoundError("Template not found")
	}
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTML(http.StatusOK, html)
}
