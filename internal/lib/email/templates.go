package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

// Template is a string-based enum naming provider-side email templates.
//
// With Mandrill the name refers to a template stored in the Mailchimp
// Transactional account. The Resend client renders the embedded file
// templates/<name>.html instead.
type Template string

const (
	// TemplateYourStory lists the sites a visitor saved during the visit.
	TemplateYourStory Template = "your-story"

	// TemplateAudioBooth carries the recording made in the audio booth.
	TemplateAudioBooth Template = "audio-booth"
)

// Embed the HTML bodies so the binary does not depend on the working directory.
//
//go:embed templates/*.html
var templateFS embed.FS

// ErrUnknownTemplate is returned when no embedded template has the name.
var ErrUnknownTemplate = errors.New("unknown email template")

// Renderer executes the embedded HTML templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every embedded templates/*.html file.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse email templates")
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(tmpl Template, data map[string]interface{}) (string, error) {
	if r.templates.Lookup(string(tmpl)+".html") == nil {
		return "", errors.Wrapf(ErrUnknownTemplate, "%s", tmpl)
	}

	var body bytes.Buffer
	if err := r.templates.ExecuteTemplate(&body, string(tmpl)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", tmpl)
	}
	return body.String(), nil
}

// Preview renders the named template with PreviewData.
func (r *Renderer) Preview(tmpl Template) (string, error) {
	data, ok := PreviewData[tmpl]
	if !ok {
		return "", errors.Wrapf(ErrUnknownTemplate, "%s", tmpl)
	}

	flat := make(map[string]interface{}, len(data))
	for k, v := range data {
		flat[k] = decodeRaw(v)
	}
	return r.Render(tmpl, flat)
}
