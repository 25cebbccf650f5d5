package model

import (
	"encoding/base64"
	"io"
	"mime/multipart"
	"strings"

	"github.com/deppfellow/museum-mailer/internal/errs"
	"github.com/deppfellow/museum-mailer/internal/lib/email"
	"github.com/deppfellow/museum-mailer/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AudioMIMEType is the only upload type accepted by POST /audio.
const AudioMIMEType = "audio/mpeg"

// AudioRequest is the multipart form of POST /audio.
type AudioRequest struct {
	Email    string
	Question string
	IsMinor  bool
	Audio    *multipart.FileHeader

	form *multipart.Form
}

func NewAudioRequest() *AudioRequest {
	return &AudioRequest{}
}

// Bind parses the multipart form. Call Close once the request is done
// to remove any temp files the parser spilled to disk.
func (r *AudioRequest) Bind(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return errs.InvalidJSON()
	}

	r.form = form
	return nil
}

// Validate checks email, question, isMinor and the upload, in that order.
func (r *AudioRequest) Validate() error {
	addr, _ := validation.FirstValue(r.form, "email")
	if validation.Var(addr, "required,basic_email") != nil {
		return errs.InvalidEmail()
	}
	r.Email = addr

	question, _ := validation.FirstValue(r.form, "question")
	question = strings.TrimSpace(question)
	if question == "" {
		return errs.InvalidQuestion()
	}
	r.Question = question

	isMinor, present := validation.FirstValue(r.form, "isMinor")
	r.IsMinor = ResolveIsMinor(isMinor, present)

	audio, ok := validation.FirstFile(r.form, "audio")
	if !ok || !IsValidUpload(audio) {
		return errs.InvalidAudio()
	}
	r.Audio = audio

	return nil
}

// ResolveIsMinor maps the submitted isMinor value to a boolean.
//
// Absent or blank means true, so do "true" and "1". Any other value
// means false.
func ResolveIsMinor(value string, present bool) bool {
	if !present || strings.TrimSpace(value) == "" {
		return true
	}
	return value == "true" || value == "1"
}

// IsValidUpload reports whether fh is an upload declared as audio/mpeg.
// Only the declared type is checked, not the file contents.
func IsValidUpload(fh *multipart.FileHeader) bool {
	if fh == nil {
		return false
	}
	return fh.Header.Get(echo.HeaderContentType) == AudioMIMEType
}

// Recording reads the upload and returns it as a base64 attachment
// carrying the declared MIME type and original filename.
func (r *AudioRequest) Recording() (email.Attachment, error) {
	if r.Audio == nil {
		return email.Attachment{}, errs.InvalidAudio()
	}

	f, err := r.Audio.Open()
	if err != nil {
		return email.Attachment{}, errors.Wrap(err, "failed to open audio upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return email.Attachment{}, errors.Wrap(err, "failed to read audio upload")
	}

	return email.Attachment{
		Type:    r.Audio.Header.Get(echo.HeaderContentType),
		Name:    r.Audio.Filename,
		Content: base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Close removes temp files created while parsing the form.
func (r *AudioRequest) Close() error {
	if r.form == nil {
		return nil
	}
	return r.form.RemoveAll()
}
