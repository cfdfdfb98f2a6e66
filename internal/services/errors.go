package services

import "errors"

// Define common service errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
	ErrDuplicate         = errors.New("already applied to this job")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrJobClosed         = errors.New("job is not accepting applications")
	ErrStore             = errors.New("storage failure") // wraps document and blob store failures
)
