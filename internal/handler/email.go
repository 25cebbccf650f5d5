package handler

import (
	"encoding/json"
	"net/http"

	"github.com/deppfellow/museum-mailer/internal/model"
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/deppfellow/museum-mailer/internal/service"
	"github.com/labstack/echo/v4"
)

// Message is the body of the plain success responses.
type Message struct {
	Success string `json:"success"`
}

// EmailHandler serves the email routes mounted under the base path.
type EmailHandler struct {
	Handler
	mail *service.MailService
}

func NewEmailHandler(s *server.Server, mail *service.MailService) *EmailHandler {
	return &EmailHandler{
		Handler: NewHandler(s),
		mail:    mail,
	}
}

// Ping reports that the endpoint is reachable. No auth.
func (h *EmailHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, Message{Success: "Endpoint is working."})
}

// Test reports that the caller passed the access guard.
func (h *EmailHandler) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, Message{Success: "Authorization was successful."})
}

// Story sends the "your-story" email. The provider response is returned as is.
func (h *EmailHandler) Story(c echo.Context, req *model.StoryRequest) (json.RawMessage, error) {
	return h.mail.SendStory(c.Request().Context(), req)
}

// Audio sends the "audio-booth" email with the uploaded recording attached.
func (h *EmailHandler) Audio(c echo.Context, req *model.AudioRequest) (json.RawMessage, error) {
	return h.mail.SendAudio(c.Request().Context(), req)
}
