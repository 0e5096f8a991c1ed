package shopee

import (
	"errors"
	"fmt"
)

// codeInvalidSignature is the API error code for signature/auth failures.
// It is treated as transient because clock skew or an upstream hiccup is the
// usual cause, not a bad credential.
const codeInvalidSignature = "10020"

// APIError is a coded error reported in the GraphQL error payload.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("shopee API error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("shopee API error: %s", e.Message)
}

// Retryable reports whether the coded error is worth another attempt.
func (e *APIError) Retryable() bool {
	return e.Code == codeInvalidSignature
}

// TransportError is a transport-level failure: a network error or a non-2xx
// HTTP status before any GraphQL payload could be interpreted.
type TransportError struct {
	Status int // zero when the request never completed
	Cause  error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("shopee transport error: HTTP %d", e.Status)
	}
	return fmt.Sprintf("shopee transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// Retryable reports whether the transport failure is transient. Network
// errors and 5xx responses are; a 4xx is a terminal request problem.
func (e *TransportError) Retryable() bool {
	return e.Status == 0 || e.Status >= 500
}

// MalformedResponseError indicates the API returned a payload that does not
// match the documented response shape.
type MalformedResponseError struct {
	Detail string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("shopee malformed response: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("shopee malformed response: %s", e.Detail)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// ErrNoShortLink is returned when link generation succeeds at the transport
// level but the response carries no link.
var ErrNoShortLink = errors.New("shopee: short link generation returned no link")

// retryable consults the typed error classification used by the client's
// backoff loop.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Retryable()
	}
	return false
}
