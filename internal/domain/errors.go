package domain

import (
	"errors"
	"net/http"
)

// ErrorType classifies a failure once, at the boundary where it happens.
// Downstream layers branch on the type and never re-classify.
type ErrorType string

const (
	ErrorTypeBadRequest ErrorType = "bad_request"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error message string constants - single source of truth for user-facing messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	ErrMsgAuthFailure      = "API key issue - stats may be temporarily unavailable."
	ErrMsgGamertagNotFound = "Gamertag not found. Check spelling and try again."
	ErrMsgRateLimited      = "Rate limit reached. Please wait a moment and try again."
	ErrMsgUnexpectedStatus = "Unexpected error (%d). Please try again later."
	ErrMsgNoAPIKeys        = "No API keys configured. Stats are unavailable."
	ErrMsgHaloUnreachable  = "Unable to connect to Halo servers. Check your connection."
	ErrMsgAoe4Unreachable  = "Unable to reach AoE4World. Check your connection and try again."
	ErrMsgAoe4BadRequest   = "Invalid request. Check parameters and try again."
	ErrMsgAoe4NotFound     = "Requested AoE4 data was not found."
	ErrMsgInternal         = "Something went wrong. Please try again later."

	ErrMsgGamertagRequired = "Gamertag is required."
	ErrMsgMatchIDRequired  = "matchId is required."
	ErrMsgInvalidRequest   = "Invalid request. Check parameters and try again."

	ErrMsgCacheMiss = "no cached payload"
)

// ErrCacheMiss is returned by cache reads that found nothing usable.
var ErrCacheMiss = errors.New(ErrMsgCacheMiss)

// APIError is the error value surfaced to callers in the {error:{type,message}} envelope.
type APIError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return string(e.Type) + ": " + e.Message
}

// NewAPIError builds an APIError.
func NewAPIError(t ErrorType, message string) *APIError {
	return &APIError{Type: t, Message: message}
}

// BadRequest is shorthand for caller input errors.
func BadRequest(message string) *APIError {
	return NewAPIError(ErrorTypeBadRequest, message)
}

// AsAPIError extracts an APIError from err. Anything that was not classified
// upstream becomes an unknown error with a generic message.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewAPIError(ErrorTypeUnknown, ErrMsgInternal)
}

// IsCacheFallbackEligible reports whether a failure of this type may be served
// from a cached payload instead.
func IsCacheFallbackEligible(t ErrorType) bool {
	switch t {
	case ErrorTypeRateLimit, ErrorTypeNetwork, ErrorTypeAuth:
		return true
	default:
		return false
	}
}

// StatusFromError maps an error type to its HTTP status.
func StatusFromError(t ErrorType) int {
	switch t {
	case ErrorTypeBadRequest:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeAuth:
		return http.StatusUnauthorized
	case ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
