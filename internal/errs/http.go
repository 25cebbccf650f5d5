// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures..
// (e.g. HTTPError for API responses)..
// to ensure the client receive meaningful and consistent..
// error messages.
//
// - Return consistent error shapes to API clients (JSON).
// - Keep a machine-friendly code next to the human message for logs.
// - Provide errors that play nicely with Go's standard errors package.
package errs

import "strings"

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error().
// Only Message reaches the client, serialized as:
//
//	{ "error": "Email is required and must be a valid email address." }
//
// Fields:
//   - Code: machine-friendly error code (e.g. "INVALID_EMAIL"), used in logs.
//   - Message: human-friendly message, the response body.
//   - Status: HTTP status code.
type HTTPError struct {
	Code    string `json:"-"`
	Message string `json:"error"`
	Status  int    `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
//
// Printing/logging the error shows the message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is customizes how errors.Is(...) treats HTTPError.
//
// Two HTTPErrors match when they carry the same Code, so callers can write
//
//	errors.Is(err, errs.InvalidEmail())
//
// without caring about which instance was returned.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

// WithMessage returns a *copy* of this HTTPError with Message replaced.
//
// Useful if you have a base error template and want to customize message
// without mutating the original.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
