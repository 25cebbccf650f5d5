// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the transactional email sender
//   - Prometheus metrics
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/museum-mailer/internal/config"
	"github.com/deppfellow/museum-mailer/internal/lib/email"
	"github.com/deppfellow/museum-mailer/internal/lib/metrics"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/museum-mailer/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. Everything it holds is built once at
// startup and is read-only afterwards, so it is safe to share across requests.
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled, this may exist but contain nil nrApp.
	LoggerService *loggerPkg.LoggerService

	// Email sends templated messages through the configured provider.
	Email email.Sender

	// Metrics holds the Prometheus collectors served on the metrics route.
	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New constructs a Server and the email sender selected by config.
//
// It does NOT start the HTTP server. That is done in SetupHTTPServer + Start.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	sender, err := email.NewSender(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}

	logger.Info().
		Str("provider", cfg.Email.Provider).
		Str("from_email", cfg.Email.FromEmail).
		Msg("email sender initialized")

	return NewWithSender(cfg, logger, loggerService, sender), nil
}

// NewWithSender builds a Server around an existing sender.
func NewWithSender(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService, sender email.Sender) *Server {
	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Email:         sender,
		Metrics:       metrics.New(),
	}
}

// From returns the sender identity used on every outgoing message.
func (s *Server) From() email.From {
	return email.From{
		Email: s.Config.Email.FromEmail,
		Name:  s.Config.Email.FromName,
	}
}

// SetupHTTPServer configures the internal net/http server.
//
// The router is passed in as handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("base_path", s.Config.Server.BasePath).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}
