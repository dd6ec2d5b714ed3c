package llm

import "errors"

var (
	// ErrRateLimited indicates the model provider rejected the call for
	// quota or throttling reasons (HTTP 429 equivalent).
	ErrRateLimited = errors.New("llm provider rate limited")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrUnavailable indicates any other provider-side failure.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrInvalidOutput indicates the model response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)

// ParseError wraps ErrInvalidOutput while preserving the raw model output for
// operator diagnosis. The raw text must never be persisted or executed.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidOutput
}
