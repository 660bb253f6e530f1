package gen

import (
	"errors"
	"fmt"
)

// ErrorKind classifies generation failures for callers deciding on
// degradation policy (placeholder image, silent slide, stalled plan).
type ErrorKind int

const (
	// KindRateLimited indicates a remote quota/backpressure signal.
	KindRateLimited ErrorKind = iota
	// KindMaxRetriesExceeded indicates the retry budget for one call is spent.
	KindMaxRetriesExceeded
	// KindTransport indicates any other remote or network failure.
	KindTransport
	// KindBadResponse indicates the response did not match the expected shape.
	KindBadResponse
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindMaxRetriesExceeded:
		return "max_retries_exceeded"
	case KindTransport:
		return "transport"
	case KindBadResponse:
		return "bad_response"
	default:
		return "unknown"
	}
}

// GenerationError is the typed failure returned by all Client operations.
type GenerationError struct {
	Kind ErrorKind
	Op   string // operation name, e.g. "slide_plan", "image", "speech"
	Err  error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gen: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("gen: %s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsMaxRetriesExceeded reports whether err is a generation failure that
// exhausted its retry budget.
func IsMaxRetriesExceeded(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Kind == KindMaxRetriesExceeded
}
