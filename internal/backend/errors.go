package backend

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any 401 response. The auth middleware maps
// it to a cleared session and a redirect to the login page.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries the backend's error payload for non-2xx responses
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an *APIError if possible
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorEnvelope matches the backend's error body. Some endpoints nest the
// gateway error under details, others put code and message at the top level.
type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Err     string `json:"error"`
	Code    string `json:"code"`
	Details struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"details"`
}

func (e *errorEnvelope) toAPIError(statusCode int) *APIError {
	code := e.Details.Code
	if code == "" {
		code = e.Code
	}
	message := e.Details.Message
	if message == "" {
		message = e.Message
	}
	if message == "" {
		message = e.Err
	}
	if message == "" {
		message = "request failed"
	}
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}
