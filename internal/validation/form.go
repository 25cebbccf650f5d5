package validation

import "mime/multipart"

// FirstValue returns the first value submitted under key.
//
// Multipart forms can repeat a key; only the first occurrence counts.
func FirstValue(form *multipart.Form, key string) (string, bool) {
	if form == nil {
		return "", false
	}
	return first(form.Value[key])
}

// FirstFile returns the first file uploaded under key.
func FirstFile(form *multipart.Form, key string) (*multipart.FileHeader, bool) {
	if form == nil {
		return nil, false
	}
	return first(form.File[key])
}

func first[T any](values []T) (T, bool) {
	var zero T
	if len(values) == 0 {
		return zero, false
	}
	return values[0], true
}
