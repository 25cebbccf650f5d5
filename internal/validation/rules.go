package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// emailRegex is a syntactic check only: something@something.something
// with no whitespace and no extra "@".
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email looks like an address.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// validate is safe for concurrent use and caches struct/tag metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// "basic_email" is looser than validator's own "email" tag on purpose:
	// it accepts exactly what IsValidEmail accepts.
	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})

	return v
}

// Var validates a single value against a tag, e.g. Var(email, "required,basic_email").
func Var(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

// Truthy reports whether a decoded JSON value counts as present.
//
// nil, false, 0 and "" are not; any other value, including empty
// arrays and objects, is.
func Truthy(value interface{}) bool {
	if value == nil {
		return false
	}
	return validate.Var(value, "required") == nil
}
