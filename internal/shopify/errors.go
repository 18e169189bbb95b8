package shopify

import (
	"encoding/json"
	"fmt"
)

// ErrorKind is a language-neutral classification of upstream API failures.
// User-facing message strings are a presentation concern and live elsewhere.
type ErrorKind string

const (
	KindBadRequest   ErrorKind = "bad_request"
	KindUnauthorized ErrorKind = "unauthorized"
	KindSuspended    ErrorKind = "account_suspended"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindRateLimited  ErrorKind = "rate_limited"
	KindAPIError     ErrorKind = "api_error"
)

// APIError is a non-2xx response from the Shopify Admin API
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("shopify API error (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("shopify API error (%s, status %d)", e.Kind, e.StatusCode)
}

// DomainError indicates the shop host could not be resolved
type DomainError struct {
	Domain string
	Err    error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("shop domain not found: %s", e.Domain)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func classifyStatus(status int, body []byte) *APIError {
	switch status {
	case 400:
		return &APIError{Kind: KindBadRequest, StatusCode: status, Message: extractErrorMessage(body)}
	case 401:
		return &APIError{Kind: KindUnauthorized, StatusCode: status}
	case 402:
		return &APIError{Kind: KindSuspended, StatusCode: status}
	case 403:
		return &APIError{Kind: KindForbidden, StatusCode: status}
	case 404:
		return &APIError{Kind: KindNotFound, StatusCode: status}
	case 429:
		return &APIError{Kind: KindRateLimited, StatusCode: status}
	default:
		return &APIError{Kind: KindAPIError, StatusCode: status, Message: string(body)}
	}
}

// extractErrorMessage pulls the "errors" or "error" value out of a 400
// response body when possible, falling back to the raw body.
func extractErrorMessage(body []byte) string {
	var payload struct {
		Errors json.RawMessage `json:"errors"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Errors) > 0 {
			return string(payload.Errors)
		}
		if len(payload.Error) > 0 {
			return string(payload.Error)
		}
	}
	return string(body)
}
