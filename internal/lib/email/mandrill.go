package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MandrillClient calls the Mailchimp Transactional (Mandrill) JSON API.
type MandrillClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

// APIError is the error body Mandrill returns with non-2xx responses:
//
//	{"status":"error","code":-1,"name":"Invalid_Key","message":"Invalid API key"}
type APIError struct {
	StatusCode int    `json:"-"`
	Status     string `json:"status"`
	Code       int    `json:"code"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mandrill: %s (status %d, code %d): %s", e.Name, e.StatusCode, e.Code, e.Message)
}

// sendTemplateRequest is the body of POST /messages/send-template.
type sendTemplateRequest struct {
	Key          string   `json:"key"`
	TemplateName Template `json:"template_name"`

	// Mandrill requires the field; all content comes from merge vars.
	TemplateContent []map[string]string `json:"template_content"`

	Message *Message `json:"message"`
}

// NewMandrillClient creates a client for the given API base URL
// (e.g. https://mandrillapp.com/api/1.0).
func NewMandrillClient(apiKey, baseURL string, timeout time.Duration, logger *zerolog.Logger) *MandrillClient {
	return &MandrillClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SendTemplate sends msg using the named server-side template.
//
// The response body is returned unmodified (a JSON array with one
// status entry per recipient).
func (c *MandrillClient) SendTemplate(ctx context.Context, template Template, msg *Message) (json.RawMessage, error) {
	start := time.Now()

	body, err := c.post(ctx, "/messages/send-template", sendTemplateRequest{
		Key:             c.apiKey,
		TemplateName:    template,
		TemplateContent: []map[string]string{{}},
		Message:         msg,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send %s email", template)
	}

	c.logger.Debug().
		Str("provider", "mandrill").
		Str("template", string(template)).
		Dur("duration", time.Since(start)).
		Msg("email accepted by provider")

	return body, nil
}

// Ping checks the API key against /users/ping2.
func (c *MandrillClient) Ping(ctx context.Context) error {
	_, err := c.post(ctx, "/users/ping2", map[string]string{"key": c.apiKey})
	return err
}

func (c *MandrillClient) post(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Name == "" {
			apiErr.Name = "Unknown_Error"
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return nil, errors.WithStack(apiErr)
	}

	if !json.Valid(body) {
		return nil, errors.New("response is not valid JSON")
	}

	return json.RawMessage(body), nil
}
