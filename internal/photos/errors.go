package photos

import "errors"

var (
	ErrNotFound        = errors.New("photo not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("photo exceeds size limit")
	ErrPresignDisabled = errors.New("direct uploads not configured")
)
