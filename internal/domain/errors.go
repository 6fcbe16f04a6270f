package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the API layer. Validation failures map
// to 400/422 responses; ErrBundleNotFound maps to 404.
var (
	ErrBundleNotFound   = errors.New("comment bundle not found")
	ErrCorpusTooSmall   = errors.New("training corpus below minimum size")
	ErrRetrainInFlight  = errors.New("retraining already in progress")
	ErrRetrainThrottled = errors.New("retraining rate limit exceeded")
)

// ValidationError carries enough detail for the caller to correct the
// request. It wraps nothing fatal; the incident record stays usable.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
