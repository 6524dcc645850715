// ABOUTME: Error type returned by every API call
// ABOUTME: Carries the HTTP status and the server's message when it sent one

package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorResponse is the error body shape the backend uses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// APIError describes a failed API call. Status is 0 when no response was
// received; Err then holds the transport failure.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return e.Err.Error()
	case e.Message != "":
		return fmt.Sprintf("backend error: %s", e.Message)
	default:
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// handleErrorResponse builds an APIError from a non-2xx body. The message is
// only taken from a JSON object with a string "error" field.
func handleErrorResponse(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Message = errResp.Error
	}
	return apiErr
}

// ErrorMessage returns the server-provided message carried by err, or
// fallback when there is none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
