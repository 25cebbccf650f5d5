package router

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/museum-mailer/internal/config"
	"github.com/deppfellow/museum-mailer/internal/handler"
	"github.com/deppfellow/museum-mailer/internal/lib/email"
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/deppfellow/museum-mailer/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const providerResponse = `[{"email":"visitor@example.com","status":"sent","_id":"abc123","reject_reason":null}]`

type sentEmail struct {
	template email.Template
	msg      *email.Message
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeSender) SendTemplate(ctx context.Context, template email.Template, msg *email.Message) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{template: template, msg: msg})
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(providerResponse), nil
}

func (f *fakeSender) calls() []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEmail(nil), f.sent...)
}

type pingingSender struct {
	fakeSender
	pingErr error
}

func (p *pingingSender) Ping(ctx context.Context) error {
	return p.pingErr
}

func newTestRouter(t *testing.T, sender email.Sender) *echo.Echo {
	t.Helper()
	t.Setenv("MAILER_AUTH__SECRET_KEY", "sk_test_123")
	t.Setenv("MAILER_EMAIL__FROM_EMAIL", "noreply@yorkhistorycenter.org")
	t.Setenv("MAILER_EMAIL__MANDRILL_API_KEY", "md-test")
	t.Setenv("MAILER_RATE_LIMIT__ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	logger := zerolog.New(io.Discard)
	s := server.NewWithSender(cfg, &logger, nil, sender)

	services, err := service.NewServices(s)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func authenticated(req *http.Request) *http.Request {
	claims := &clerk.SessionClaims{}
	claims.Subject = "user_kiosk_1"
	return req.WithContext(clerk.ContextWithSessionClaims(req.Context(), claims))
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func storyRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/email/story", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return authenticated(req)
}

func audioRequest(t *testing.T, values map[string]string, contentType string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	if contentType != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="audio"; filename="booth-042.mp3"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("ID3\x04fake"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/email/audio", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return authenticated(req)
}

const site = `{"siteName":"Colonial Complex","locationInfo":"157 W Market St","curatorCollection":"Decorative Arts","address":"York, PA 17401","thumbnail":"https://example.org/colonial.jpg"}`

func TestPing(t *testing.T) {
	e := newTestRouter(t, &fakeSender{})

	for _, path := range []string{"/email", "/email/"} {
		rec := do(e, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"success":"Endpoint is working."}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	}
}

func TestAccessGuard(t *testing.T) {
	sender := &fakeSender{}
	e := newTestRouter(t, sender)

	paths := []string{"/email/test", "/email/story", "/email/audio"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"email":"a@b.co","sites":[`+site+`]}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

			rec := do(e, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.JSONEq(t, `{"error":"You don't have permission to access this."}`, rec.Body.String())
		})
	}

	assert.Empty(t, sender.calls())

	rec := do(e, authenticated(httptest.NewRequest(http.MethodPost, "/email/test", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":"Authorization was successful."}`, rec.Body.String())
}

// unverifiableToken is a well-formed JWS without a "kid" header, so the
// session loader rejects it before any key lookup.
func unverifiableToken() string {
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(`{"sub":"user_kiosk_1","exp":4102444800}`))
	return header + "." + payload + "." + enc.EncodeToString([]byte("signature"))
}

func TestAccessGuard_BadBearerToken(t *testing.T) {
	tokens := map[string]string{
		"malformed":    "not-a-jwt",
		"unverifiable": unverifiableToken(),
	}
	paths := []string{"/email/test", "/email/story", "/email/audio"}

	for name, token := range tokens {
		for _, path := range paths {
			t.Run(name+path, func(t *testing.T) {
				sender := &fakeSender{}
				e := newTestRouter(t, sender)

				req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"email":"a@b.co","sites":[`+site+`]}`))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

				rec := do(e, req)

				assert.Equal(t, http.StatusForbidden, rec.Code)
				assert.JSONEq(t, `{"error":"You don't have permission to access this."}`, rec.Body.String())
				assert.Empty(t, sender.calls())
			})
		}

		t.Run(name+"/public", func(t *testing.T) {
			e := newTestRouter(t, &fakeSender{})

			req := httptest.NewRequest(http.MethodGet, "/email/", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

			rec := do(e, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"success":"Endpoint is working."}`, rec.Body.String())
		})
	}
}

func TestStory(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		sender := &fakeSender{}
		e := newTestRouter(t, sender)
		sites := `[` + site + `]`

		rec := do(e, storyRequest(`{"email":"visitor@example.com","sites":`+sites+`}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, providerResponse, rec.Body.String())

		calls := sender.calls()
		require.Len(t, calls, 1)
		assert.Equal(t, email.TemplateYourStory, calls[0].template)

		got, ok := calls[0].msg.Var("sites")
		require.True(t, ok)
		encoded, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, sites, string(encoded))
	})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty sites", `{"email":"visitor@example.com","sites":[]}`, `{"error":"sites must be an object with length > 0."}`},
		{"missing thumbnail", `{"email":"visitor@example.com","sites":[{"siteName":"A","locationInfo":"B","curatorCollection":"C","address":"D"}]}`, `{"error":"Each site object must contain keys for siteName, locationInfo, curatorCollection, address, and thumbnail."}`},
		{"invalid email", `{"email":"visitor","sites":[` + site + `]}`, `{"error":"Email is required and must be a valid email address."}`},
		{"malformed json", `{"email":`, `{"error":"Invalid JSON data."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			e := newTestRouter(t, sender)

			rec := do(e, storyRequest(tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
			assert.Empty(t, sender.calls())
		})
	}

	t.Run("send failure", func(t *testing.T) {
		sender := &fakeSender{err: errors.New("Invalid_Key: Invalid API key")}
		e := newTestRouter(t, sender)

		rec := do(e, storyRequest(`{"email":"visitor@example.com","sites":[`+site+`]}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Error sending email."}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "Invalid_Key")
		assert.Len(t, sender.calls(), 1)
	})

	t.Run("identical payloads", func(t *testing.T) {
		sender := &fakeSender{}
		e := newTestRouter(t, sender)
		body := `{"email":"visitor@example.com","sites":[` + site + `]}`

		first := do(e, storyRequest(body))
		second := do(e, storyRequest(body))

		assert.Equal(t, first.Body.String(), second.Body.String())
		calls := sender.calls()
		require.Len(t, calls, 2)
		assert.Equal(t, calls[0].msg, calls[1].msg)
	})
}

func TestAudio(t *testing.T) {
	base := map[string]string{
		"email":    "visitor@example.com",
		"question": "What did York look like when you were young?",
	}
	with := func(k, v string) map[string]string {
		values := map[string]string{}
		for key, val := range base {
			values[key] = val
		}
		values[k] = v
		return values
	}

	minorTests := []struct {
		name   string
		values map[string]string
		header string
	}{
		{"isMinor absent", base, "Thank You for Recording"},
		{"isMinor false", with("isMinor", "false"), "Thank You for Sharing"},
		{"isMinor 1", with("isMinor", "1"), "Thank You for Recording"},
	}

	for _, tt := range minorTests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			e := newTestRouter(t, sender)

			rec := do(e, audioRequest(t, tt.values, "audio/mpeg"))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, providerResponse, rec.Body.String())

			calls := sender.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, email.TemplateAudioBooth, calls[0].template)

			header, ok := calls[0].msg.Var("header")
			require.True(t, ok)
			assert.Equal(t, tt.header, header)

			require.Len(t, calls[0].msg.Attachments, 1)
			assert.Equal(t, "booth-042.mp3", calls[0].msg.Attachments[0].Name)
			assert.Equal(t, "audio/mpeg", calls[0].msg.Attachments[0].Type)
		})
	}

	errorTests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		message string
	}{
		{"wrong mime", func(t *testing.T) *http.Request {
			return audioRequest(t, base, "audio/wav")
		}, "Audio file is required, and must be of type audio/mpeg."},
		{"missing file", func(t *testing.T) *http.Request {
			return audioRequest(t, base, "")
		}, "Audio file is required, and must be of type audio/mpeg."},
		{"blank question", func(t *testing.T) *http.Request {
			return audioRequest(t, with("question", "  "), "audio/mpeg")
		}, "Question text is required."},
		{"not multipart", func(t *testing.T) *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/email/audio", strings.NewReader(`{"email":"a@b.co"}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			return authenticated(req)
		}, "Invalid JSON data."},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			e := newTestRouter(t, sender)

			rec := do(e, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.message+`"}`, rec.Body.String())
			assert.Empty(t, sender.calls())
		})
	}
}

func TestStatus(t *testing.T) {
	t.Run("healthy provider", func(t *testing.T) {
		e := newTestRouter(t, &pingingSender{})

		rec := do(e, httptest.NewRequest(http.MethodGet, "/status", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "healthy", body["checks"].(map[string]interface{})["email"].(map[string]interface{})["status"])
	})

	t.Run("unreachable provider", func(t *testing.T) {
		e := newTestRouter(t, &pingingSender{pingErr: errors.New("Invalid_Key: Invalid API key")})

		rec := do(e, httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"unhealthy"`)
		assert.NotContains(t, rec.Body.String(), "Invalid API key")
		assert.NotContains(t, rec.Body.String(), `"error"`)
	})

	t.Run("provider without ping", func(t *testing.T) {
		e := newTestRouter(t, &fakeSender{})

		rec := do(e, httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"skipped"`)
	})
}

func TestDocs(t *testing.T) {
	e := newTestRouter(t, &fakeSender{})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "/email", doc.Servers[0].URL)
	assert.Contains(t, doc.Paths, "/story")
	assert.Contains(t, doc.Paths, "/audio")

	rec = do(e, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestRouteNotFound(t *testing.T) {
	e := newTestRouter(t, &fakeSender{})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	e := newTestRouter(t, &fakeSender{})

	rec := do(e, storyRequest(`{"email":"visitor@example.com","sites":[`+site+`]}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, storyRequest(`{"email":"visitor@example.com","sites":[]}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `museum_mailer_emails_total{outcome="sent",template="your-story"} 1`)
	assert.Contains(t, body, `museum_mailer_requests_rejected_total{code="INVALID_SITES"} 1`)
}

func TestEmailPreview(t *testing.T) {
	e := newTestRouter(t, &fakeSender{})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/docs/emails/your-story", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Colonial Complex")

	rec = do(e, httptest.NewRequest(http.MethodGet, "/docs/emails/welcome", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Template not found"}`, rec.Body.String())
}

func TestEmailPreview_Production(t *testing.T) {
	t.Setenv("MAILER_PRIMARY__ENV", "production")
	e := newTestRouter(t, &fakeSender{})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/docs/emails/your-story", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
