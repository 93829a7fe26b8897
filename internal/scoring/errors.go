package scoring

import (
	"fmt"
	"net/http"
)

// User facing messages for failures that carry no message of their own.
const (
	msgUnreachable = "Failed to reach the analysis service."
	msgMalformed   = "The analysis service returned an unreadable response."
)

// RequestError is any failure of the scoring exchange. Message is safe to
// show to users, Err keeps the underlying cause for logs.
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Detail renders the error with its cause for logging.
func (e *RequestError) Detail() string {
	if e.Err == nil {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("status %d: %s: %v", e.StatusCode, e.Message, e.Err)
}

func statusMessage(status int, embedded string) string {
	if embedded != "" {
		return embedded
	}

	return fmt.Sprintf("Error %d", status)
}

// IsUpstreamStatus reports whether the error came from a non-success
// response, as opposed to a transport or decoding failure.
func (e *RequestError) IsUpstreamStatus() bool {
	return e.StatusCode != 0 && (e.StatusCode < http.StatusOK || e.StatusCode >= http.StatusMultipleChoices)
}
