// Package email provides the transactional email senders.
//
// Two providers are supported:
//   - Mailchimp Transactional (Mandrill): server-side templates filled with merge vars
//   - Resend: templates embedded in the binary, rendered locally with html/template
//
// Both are hidden behind Sender, which is built once at startup and
// injected into the services that need it.
package email

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/museum-mailer/internal/config"
	"github.com/rs/zerolog"
)

// Sender sends a templated message and returns the provider's raw response.
//
// One attempt per call: no retries, no queueing.
type Sender interface {
	SendTemplate(ctx context.Context, template Template, msg *Message) (json.RawMessage, error)
}

// Pinger is implemented by senders that can check provider connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewSender builds the Sender selected by cfg.Email.Provider.
func NewSender(cfg *config.Config, logger *zerolog.Logger) (Sender, error) {
	timeout := time.Duration(cfg.Email.Timeout) * time.Second

	switch cfg.Email.Provider {
	case config.ProviderMandrill:
		return NewMandrillClient(cfg.Email.MandrillAPIKey, cfg.Email.MandrillBaseURL, timeout, logger), nil
	case config.ProviderResend:
		return NewResendClient(cfg.Email.ResendAPIKey, logger)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}
}
