package session

import "fmt"

// timeoutMessage is the stable message surfaced when a request exceeds its bound.
const timeoutMessage = "Request timed out"

// APIError is the uniform error shape returned for failed requests.
// Status is zero for transport-level failures such as timeouts.
type APIError struct {
	// Status is the HTTP status code of the final response, when one was received.
	Status int
	// Message is derived from the response body when present, else the status text.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// IsTimeout reports whether the error represents a timed-out request.
func (e *APIError) IsTimeout() bool {
	return e.Status == 0 && e.Message == timeoutMessage
}

func newTimeoutError() *APIError {
	return &APIError{Message: timeoutMessage}
}

func newHTTPError(status int, bodyText, statusText string) *APIError {
	detail := bodyText
	if detail == "" {
		detail = statusText
	}
	return &APIError{Status: status, Message: fmt.Sprintf("HTTP %d: %s", status, detail)}
}
