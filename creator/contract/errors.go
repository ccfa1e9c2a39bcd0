package contract

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage operation failed")
	ErrAdapter    = errors.New("provider request failed")
	ErrGeneration = errors.New("contract generation failed")
	ErrTimeout    = errors.New("provider request timed out")
)

// ErrRateLimited is provider throttling. It wraps ErrAdapter so generic
// adapter-failure handling still catches it, while callers that care can
// match it directly.
var ErrRateLimited = fmt.Errorf("%w: rate limit exceeded", ErrAdapter)

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
