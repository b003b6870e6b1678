package analyses

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyFinished   = errors.New("analysis already finished")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrShuttingDown      = errors.New("analysis service shutting down")
)

// errStorage tags failures reading or writing the photo or the job row.
var errStorage = errors.New("storage")

const (
	ErrorCodeAnalyzerTimeout       = "ANALYZER_TIMEOUT"
	ErrorCodeAnalyzerOutputInvalid = "ANALYZER_OUTPUT_INVALID"
	ErrorCodeAnalyzerUnavailable   = "ANALYZER_UNAVAILABLE"
	ErrorCodeStorage               = "STORAGE_ERROR"
	ErrorCodeInternal              = "INTERNAL_ERROR"
	ErrorCodeCancelled             = "CANCELLED"
)
