package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deppfellow/museum-mailer/internal/errs"
	"github.com/deppfellow/museum-mailer/internal/lib/email"
	"github.com/deppfellow/museum-mailer/internal/lib/metrics"
	"github.com/deppfellow/museum-mailer/internal/model"
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// MailService turns validated requests into templated emails.
//
// Each call makes exactly one provider attempt. A provider failure is
// logged with its detail and reported to the caller only as EmailSendError.
type MailService struct {
	server *server.Server
}

func NewMailService(s *server.Server) *MailService {
	return &MailService{server: s}
}

// SendStory sends the "your-story" email with the visitor's sites.
func (m *MailService) SendStory(ctx context.Context, req *model.StoryRequest) (json.RawMessage, error) {
	msg := email.NewStoryMessage(m.server.From(), req.Email, req.Sites)

	return m.send(ctx, email.TemplateYourStory, msg)
}

// SendAudio sends the "audio-booth" email with the recording attached.
//
// A recording that cannot be read is reported as InvalidJSON.
func (m *MailService) SendAudio(ctx context.Context, req *model.AudioRequest) (json.RawMessage, error) {
	recording, err := req.Recording()
	if err != nil {
		m.logger(ctx).Error().Err(err).Msg("failed to encode audio upload")
		return nil, errs.InvalidJSON()
	}

	msg := email.NewAudioMessage(m.server.From(), req.Email, req.Question, req.IsMinor, recording)

	return m.send(ctx, email.TemplateAudioBooth, msg)
}

func (m *MailService) send(ctx context.Context, template email.Template, msg *email.Message) (json.RawMessage, error) {
	logger := m.logger(ctx).With().
		Str("template", string(template)).
		Logger()

	txn := newrelic.FromContext(ctx)
	if txn != nil {
		txn.AddAttribute("email.template", string(template))
		txn.AddAttribute("email.attachments", len(msg.Attachments))
	}

	start := time.Now()
	resp, err := m.server.Email.SendTemplate(ctx, template, msg)
	if err != nil {
		m.server.Metrics.ObserveSend(string(template), metrics.OutcomeFailed, time.Since(start))

		logger.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("failed to send email")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}

		return nil, errs.EmailSendError()
	}

	m.server.Metrics.ObserveSend(string(template), metrics.OutcomeSent, time.Since(start))

	logger.Info().
		Dur("duration", time.Since(start)).
		Msg("email sent")

	return resp, nil
}

// logger prefers the request-scoped logger placed in ctx by middleware.
func (m *MailService) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return m.server.Logger
}
