package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoBaseURL reports that no backend base URL was configured. There is no
// default URL to fall back to.
var ErrNoBaseURL = errors.New("backend base URL is not configured")

// RequestError reports that the product service could not be reached at all:
// DNS failure, refused connection, dropped transfer.
type RequestError struct {
	Operation string
	Err       error
}

func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("could not reach the product service (%s): %v", e.Operation, e.Err)
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusError captures non-2xx responses from the product service. Message
// holds the server-provided message when the error body carried one.
type StatusError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return fmt.Sprintf("%s request failed: status %d %s", e.Operation, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s request failed: %s", e.Operation, e.Message)
}
