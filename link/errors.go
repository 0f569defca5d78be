package link

import "errors"

var (
	// ErrInvalidScheme is returned when the handler URL does not start with the mpv://play/ prefix.
	ErrInvalidScheme = errors.New("invalid URL scheme")

	// ErrDecodeFailed is returned when a segment is not valid URL-safe base64.
	ErrDecodeFailed = errors.New("failed to decode segment")

	// ErrEncodingFailed is returned when a decoded segment is not UTF-8 text.
	ErrEncodingFailed = errors.New("decoded segment is not valid UTF-8")

	// ErrMissingField is matched by every *FieldError.
	ErrMissingField = errors.New("missing field")
)

// FieldError names the session parameter that could not be recovered from a media URL.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return "missing " + e.Field + ": " + e.Err.Error()
	}
	return "missing " + e.Field
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMissingField
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
