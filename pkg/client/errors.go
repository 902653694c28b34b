package client

import "fmt"

// RateLimitError signals an HTTP 429 from NCBI. It is transient and the
// executor retries it with backoff.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string { return e.Message }

// TransientError wraps a network-level failure (connection reset, DNS,
// timeout). The executor retries it with backoff.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient request failure: %v", e.Err) }

func (e *TransientError) Unwrap() error { return e.Err }

// APIError is a permanent non-success response from NCBI. It is not retried.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ncbi api error (status %d): %s", e.StatusCode, e.Message)
	}
	return "ncbi api error: " + e.Message
}
