package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the failure taxonomy.
// Use errors.Is() to check against these.
var (
	ErrIdentityNotFound = errors.New("identity not found")
	ErrNetwork          = errors.New("network failure")
	ErrRemoteFailure    = errors.New("remote failure")
	ErrMalformedShape   = errors.New("malformed remote shape")
	ErrValidation       = errors.New("validation failure")
	ErrNotFound         = errors.New("not found")
)

// APIError is the structured error returned by every fallible operation.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	StatusCode int    `json:"-"` // HTTP status, not serialized
	Err        error  `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewIdentityNotFoundError is returned when no partner email can be resolved.
// Callers must block the operation and ask the user to sign in again.
func NewIdentityNotFoundError() *APIError {
	return &APIError{
		Code:       "IDENTITY_NOT_FOUND",
		Message:    "partner session not found, please sign in again",
		StatusCode: 401,
		Err:        ErrIdentityNotFound,
	}
}

// NewNetworkError wraps a transport-level failure (request never got a response).
func NewNetworkError(service string, err error) *APIError {
	return &APIError{
		Code:       "NETWORK_FAILURE",
		Message:    fmt.Sprintf("%s request failed", service),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrNetwork, err),
	}
}

// NewRemoteError reports a response that was received but not successful:
// either a non-2xx status or an envelope with success=false.
// An empty message falls back to a generic one.
func NewRemoteError(status int, message string) *APIError {
	if message == "" {
		message = "request was not successful, please try again"
	}
	if status < 400 {
		status = 502
	}
	code := "REMOTE_FAILURE"
	err := ErrRemoteFailure
	if status == 404 {
		code = "NOT_FOUND"
		err = fmt.Errorf("%w: %w", ErrRemoteFailure, ErrNotFound)
	}
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: status,
		Err:        err,
	}
}

// NewNotFoundError creates a 404 error for a missing resource.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Err:        ErrNotFound,
	}
}

// NewMalformedShapeError describes an embedded field that could not be parsed.
// These are logged and recovered, never surfaced to a user.
func NewMalformedShapeError(field string, err error) *APIError {
	return &APIError{
		Code:       "MALFORMED_REMOTE_SHAPE",
		Message:    fmt.Sprintf("field %s has an unexpected shape", field),
		Field:      field,
		StatusCode: 500,
		Err:        fmt.Errorf("%w: %v", ErrMalformedShape, err),
	}
}

// NewValidationError creates a 400 error for invalid input.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		Field:      field,
		StatusCode: 400,
		Err:        ErrValidation,
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}

// FieldErrors collects per-field validation messages for inline display.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(fe, ErrValidation) succeed.
func (fe FieldErrors) Is(target error) bool {
	return target == ErrValidation
}

// UserMessage returns the text to show in a blocking dialog for err.
// Falls back to a generic message for errors outside the taxonomy.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return "something went wrong, please try again"
}
