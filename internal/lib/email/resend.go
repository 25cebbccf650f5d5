package email

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ResendClient wraps the Resend client and the embedded HTML templates.
type ResendClient struct {
	*Renderer

	// client is the provider client used to send emails via API.
	client *resend.Client

	logger *zerolog.Logger
}

// NewResendClient creates a ResendClient and parses the embedded templates.
func NewResendClient(apiKey string, logger *zerolog.Logger) (*ResendClient, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	return &ResendClient{
		Renderer: renderer,
		client:   resend.NewClient(apiKey),
		logger:   logger,
	}, nil
}

// SendTemplate renders the template with the recipient's merge vars and
// sends it through Resend.
//
// Steps:
//   - Render templates/<template>.html into a buffer
//   - Decode base64 attachments back to bytes
//   - Call Resend API and return its JSON response
func (c *ResendClient) SendTemplate(ctx context.Context, tmpl Template, msg *Message) (json.RawMessage, error) {
	html, err := c.Render(tmpl, mergeVarData(msg))
	if err != nil {
		return nil, err
	}

	attachments := make([]*resend.Attachment, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		content, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode attachment %s", a.Name)
		}
		attachments = append(attachments, &resend.Attachment{
			Filename:    a.Name,
			ContentType: a.Type,
			Content:     content,
		})
	}

	params := &resend.SendEmailRequest{
		// "From" is the sender identity. Resend requires a verified domain.
		From:        fmt.Sprintf("%s <%s>", msg.FromName, msg.FromEmail),
		To:          []string{msg.Recipient()},
		Subject:     msg.Subject,
		Html:        html,
		Attachments: attachments,
	}

	resp, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send %s email", tmpl)
	}

	c.logger.Debug().
		Str("provider", "resend").
		Str("template", string(tmpl)).
		Str("email_id", resp.Id).
		Msg("email accepted by provider")

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode provider response")
	}

	return raw, nil
}

// mergeVarData flattens the recipient's merge vars into template data.
// Raw JSON content (the story sites) is decoded so templates can range over it.
func mergeVarData(msg *Message) map[string]interface{} {
	data := make(map[string]interface{})
	for _, block := range msg.MergeVars {
		if block.Rcpt != msg.Recipient() {
			continue
		}
		for _, v := range block.Vars {
			data[v.Name] = decodeRaw(v.Content)
		}
	}
	return data
}

func decodeRaw(content interface{}) interface{} {
	raw, ok := content.(json.RawMessage)
	if !ok {
		return content
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw)
	}
	return decoded
}
