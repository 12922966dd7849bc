package izettle

import (
	"encoding/json"
	"fmt"
)

// AuthenticationError is an error used to encode a failed OAuth token grant
// (either the token endpoint returned a non-200 status
// or the response did not contain an access token)
type AuthenticationError struct {
	// Status is the HTTP status code returned by the token endpoint
	Status int
	// Body is the raw response body, kept for debugging
	Body []byte
	// Diagnostic is the best-effort human-readable message
	// extracted from the response body (may be empty)
	Diagnostic string
}

// NewAuthenticationError constructs a new AuthenticationError,
// extracting the diagnostic message from the raw response body
func NewAuthenticationError(status int, body []byte) *AuthenticationError {
	return &AuthenticationError{
		Status:     status,
		Body:       body,
		Diagnostic: extractDiagnostic(body),
	}
}

func (e *AuthenticationError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("failed to authenticate iZettle session (status %d): %s",
			e.Status, e.Diagnostic)
	}

	return fmt.Sprintf("failed to authenticate iZettle session (status %d)", e.Status)
}

// RequestError is an error used to encode a non-2xx response
// to an authenticated API call
// (after at most one expiry-triggered retry)
type RequestError struct {
	// Status is the HTTP status code returned by the API
	Status int
	// Body is the raw response body, kept for debugging
	Body []byte
	// Diagnostic is the best-effort human-readable message
	// extracted from the response body (may be empty)
	Diagnostic string
}

// NewRequestError constructs a new RequestError,
// extracting the diagnostic message from the raw response body
func NewRequestError(status int, body []byte) *RequestError {
	return &RequestError{
		Status:     status,
		Body:       body,
		Diagnostic: extractDiagnostic(body),
	}
}

func (e *RequestError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("iZettle API request failed (status %d): %s",
			e.Status, e.Diagnostic)
	}

	return fmt.Sprintf("iZettle API request failed (status %d)", e.Status)
}

// DecodeError is an error used to encode a 2xx response
// whose body could not be decoded as JSON.
// The HTTP layer reported success, so this is distinct from RequestError
type DecodeError struct {
	Method string
	URL    string
	Err    error
}

// NewDecodeError constructs a new DecodeError
func NewDecodeError(method string, url string, err error) *DecodeError {
	return &DecodeError{
		Method: method,
		URL:    url,
		Err:    err,
	}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode the successful response to %s %s: %s",
		e.Method, e.URL, e.Err)
}

// diagnosticFields is the JSON shape used when extracting
// a human-readable message from an error response body.
// The iZettle services use 'developerMessage',
// while the OAuth token endpoint uses the standard
// 'error_description'/'error' fields
type diagnosticFields struct {
	DeveloperMessage string `json:"developerMessage"`
	ErrorDescription string `json:"error_description"`
	ErrorField       string `json:"error"`
}

// extractDiagnostic pulls the most useful error message out of a response body,
// trying known fields in order.
// Returns an empty string if the body is not valid JSON
// (the error might not come from the iZettle application itself,
// but rather from a load balancer or proxy in front of it)
func extractDiagnostic(body []byte) string {
	fields := diagnosticFields{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}

	if fields.DeveloperMessage != "" {
		return fields.DeveloperMessage
	}

	if fields.ErrorDescription != "" {
		return fields.ErrorDescription
	}

	return fields.ErrorField
}

// errorBody is the JSON shape of a structured API error response,
// used to detect the access-token-expired sentinel on 401 responses
type errorBody struct {
	ErrorType string `json:"errorType"`
}

// errorType extracts the structured error type from a response body,
// returning an empty string if the body is not valid JSON
func errorType(body []byte) string {
	parsed := errorBody{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	return parsed.ErrorType
}
