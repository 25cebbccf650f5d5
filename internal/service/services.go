package service

import (
	"github.com/deppfellow/museum-mailer/internal/server"
)

type Services struct {
	Auth *AuthService
	Mail *MailService
}

func NewServices(s *server.Server) (*Services, error) {
	authService := NewAuthService(s)

	return &Services{
		Auth: authService,
		Mail: NewMailService(s),
	}, nil
}
