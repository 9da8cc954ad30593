package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrMalformedThreadID  = errors.New("malformed thread identifier")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidDate        = errors.New("invalid date (expected YYYY-MM-DD or RFC 3339)")
	ErrInvalidDateRange   = errors.New("date range start must be before end")
	ErrRetriesExhausted   = errors.New("retries exhausted")
	ErrFetch              = errors.New("fetch from chat API failed")
	ErrStoreNotFound      = errors.New("data file not found")
	ErrNoSpaces           = errors.New("no spaces available")
	ErrConfigExists       = errors.New("config file already exists")
	ErrCredentialsMissing = errors.New("OAuth client credentials file not found")
	ErrNotAuthorized      = errors.New("not authorized for the chat API")
)

// MalformedThreadError reports a task notification whose thread name does not
// contain a task ID. It is structural and must not be retried.
type MalformedThreadError struct {
	ThreadName string
	Segments   int
}

func (e *MalformedThreadError) Error() string {
	return fmt.Sprintf("%s: %q has %d segments, need %d",
		ErrMalformedThreadID, e.ThreadName, e.Segments, threadTaskSegment+1)
}

// Unwrap allows errors.Is(err, ErrMalformedThreadID).
func (e *MalformedThreadError) Unwrap() error {
	return ErrMalformedThreadID
}

// IsStructural reports whether err is a parsing failure that retrying or
// skipping a space cannot fix.
func IsStructural(err error) bool {
	return errors.Is(err, ErrMalformedThreadID)
}
