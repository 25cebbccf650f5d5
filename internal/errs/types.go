package errs

import (
	"net/http"
)

// Machine-readable codes for every failure the email endpoints can report.
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidEmail     = "INVALID_EMAIL"
	CodeInvalidSites     = "INVALID_SITES"
	CodeInvalidSiteEntry = "INVALID_SITE_ENTRY"
	CodeInvalidQuestion  = "INVALID_QUESTION"
	CodeInvalidAudio     = "INVALID_AUDIO"
	CodeEmailSendError   = "EMAIL_SEND_ERROR"
)

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(code, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code is optional: an empty string defaults to "BAD_REQUEST".
func NewBadRequestError(code, message string) *HTTPError {
	if code == "" {
		// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
		code = MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	}

	return &HTTPError{
		Code:    code,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)),
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the real internal error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// Unauthorized is returned when the request carries no caller identity.
//
// Note: the status is 403, not 401. Clients of the museum kiosk only ever
// check for 403 here.
func Unauthorized() *HTTPError {
	return NewForbiddenError(CodeUnauthorized, "You don't have permission to access this.")
}

// InvalidJSON is the fallback for any body that cannot be parsed.
func InvalidJSON() *HTTPError {
	return NewBadRequestError(CodeInvalidJSON, "Invalid JSON data.")
}

func InvalidEmail() *HTTPError {
	return NewBadRequestError(CodeInvalidEmail, "Email is required and must be a valid email address.")
}

func InvalidSites() *HTTPError {
	return NewBadRequestError(CodeInvalidSites, "sites must be an object with length > 0.")
}

func InvalidSiteEntry() *HTTPError {
	return NewBadRequestError(CodeInvalidSiteEntry,
		"Each site object must contain keys for siteName, locationInfo, curatorCollection, address, and thumbnail.")
}

func InvalidQuestion() *HTTPError {
	return NewBadRequestError(CodeInvalidQuestion, "Question text is required.")
}

func InvalidAudio() *HTTPError {
	return NewBadRequestError(CodeInvalidAudio, "Audio file is required, and must be of type audio/mpeg.")
}

// EmailSendError hides the provider failure from the client.
// The underlying error is logged by the caller before this is returned.
func EmailSendError() *HTTPError {
	return NewBadRequestError(CodeEmailSendError, "Error sending email.")
}
