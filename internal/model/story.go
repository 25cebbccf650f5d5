package model

import (
	"encoding/json"
	"io"

	"github.com/deppfellow/museum-mailer/internal/errs"
	"github.com/deppfellow/museum-mailer/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SiteKeys are the keys every site entry must carry with a truthy value.
var SiteKeys = []string{"siteName", "locationInfo", "curatorCollection", "address", "thumbnail"}

// StoryRequest is the JSON body of POST /story.
//
// Sites keeps the submitted bytes so the list reaches the email template
// exactly as the visitor's device sent it.
type StoryRequest struct {
	Email string
	Sites json.RawMessage

	fields map[string]json.RawMessage
}

func NewStoryRequest() *StoryRequest {
	return &StoryRequest{}
}

// Bind reads the body as a JSON object.
func (r *StoryRequest) Bind(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errors.Wrap(err, "failed to read request body")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return errs.InvalidJSON()
	}

	r.fields = fields
	return nil
}

// Validate checks email, then sites, then each site entry, and stops at
// the first failure.
func (r *StoryRequest) Validate() error {
	email, ok := stringField(r.fields, "email")
	if !ok || validation.Var(email, "required,basic_email") != nil {
		return errs.InvalidEmail()
	}
	r.Email = email

	raw, ok := r.fields["sites"]
	if !ok {
		return errs.InvalidSites()
	}

	var sites interface{}
	if err := json.Unmarshal(raw, &sites); err != nil {
		return errs.InvalidJSON()
	}

	entries, err := siteList(sites)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := validateSiteEntry(entry); err != nil {
			return err
		}
	}

	r.Sites = raw
	return nil
}

// siteList accepts only a non-empty array. Empty containers and
// non-containers are InvalidSites; a non-empty object is not a list.
func siteList(sites interface{}) ([]interface{}, error) {
	switch v := sites.(type) {
	case []interface{}:
		if len(v) == 0 {
			return nil, errs.InvalidSites()
		}
		return v, nil
	case map[string]interface{}:
		if len(v) == 0 {
			return nil, errs.InvalidSites()
		}
		return nil, errs.InvalidJSON()
	default:
		return nil, errs.InvalidSites()
	}
}

func validateSiteEntry(entry interface{}) error {
	switch site := entry.(type) {
	case nil:
		return errs.InvalidJSON()
	case map[string]interface{}:
		for _, key := range SiteKeys {
			if !validation.Truthy(site[key]) {
				return errs.InvalidSiteEntry()
			}
		}
		return nil
	default:
		return errs.InvalidSiteEntry()
	}
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
