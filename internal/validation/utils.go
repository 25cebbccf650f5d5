package validation

import (
	"errors"

	"github.com/deppfellow/museum-mailer/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to
// read themselves from a request and validate themselves.
//
// Typical pattern:
//   - Bind parses the raw body (JSON, multipart) into the request struct
//   - Validate applies the field rules in order and stops at the first failure
//
// Both return *errs.HTTPError for classified failures.
type Validatable interface {
	Bind(c echo.Context) error
	Validate() error
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) payload.Bind(c) populates the request from the incoming body.
// 2) payload.Validate() applies validation rules.
// 3) Any error that is not already an *errs.HTTPError becomes InvalidJSON,
// the single fallback kind for unclassified parse failures.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := payload.Bind(c); err != nil {
		return classify(err)
	}

	if err := payload.Validate(); err != nil {
		return classify(err)
	}

	return nil
}

func classify(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return errs.InvalidJSON()
}
