package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Category classifies a failed request into one user-facing bucket.
// Every transport or HTTP failure maps to exactly one category before it
// is surfaced; raw transport errors never escape this package.
type Category string

const (
	CategoryValidation         Category = "validation"
	CategoryAuthorization      Category = "authorization"
	CategoryForbidden          Category = "forbidden"
	CategoryNotFound           Category = "not-found"
	CategoryRateLimited        Category = "rate-limited"
	CategoryTimeout            Category = "timeout"
	CategoryNetworkUnreachable Category = "network-unreachable"
	CategoryServerFault        Category = "server-fault"
	CategoryUnknown            Category = "unknown"
)

// ErrAuthToken marks an authorization failure observed outside a browser
// route context. Callers handling server-rendered requests must redirect
// to the login screen when they see it.
var ErrAuthToken = errors.New("authentication token rejected")

// APIError is the single error type produced by the client boundary.
type APIError struct {
	Category    Category
	Message     string
	StatusCode  int
	RateLimited bool
	err         error
}

func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.err
}

// RequestInfo carries the request facts classification needs.
type RequestInfo struct {
	Method string
	URL    string
}

// serverPayload mirrors the error body shape of the remote API.
type serverPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// serverMessage extracts the error or message field from a response body.
func serverMessage(body []byte) string {
	var payload serverPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// Classify maps one transport outcome onto exactly one normalized error.
// It is pure: the authorization side effect (forced sign-out) is handled
// by the client after classification. Conditions are evaluated in order
// and the first match wins.
func Classify(info RequestInfo, resp *http.Response, body []byte, transportErr error) *APIError {
	if transportErr != nil {
		if isTimeout(transportErr) {
			return &APIError{
				Category:   CategoryTimeout,
				Message:    "request timed out, please try again",
				StatusCode: 0,
				err:        transportErr,
			}
		}
		msg := "connection error, check your internet connection"
		if isLocalBackend(info.URL) {
			msg = "local backend is not responding, check that it is running"
		}
		return &APIError{
			Category: CategoryNetworkUnreachable,
			Message:  msg,
			err:      transportErr,
		}
	}

	status := resp.StatusCode
	switch status {
	case http.StatusUnauthorized:
		return &APIError{
			Category:   CategoryAuthorization,
			Message:    "session expired, please sign in again",
			StatusCode: status,
		}
	case http.StatusForbidden:
		return &APIError{
			Category:   CategoryForbidden,
			Message:    "you do not have permission to perform this action",
			StatusCode: status,
		}
	case http.StatusNotFound:
		return &APIError{
			Category:   CategoryNotFound,
			Message:    "resource not found",
			StatusCode: status,
		}
	case http.StatusTooManyRequests:
		msg := "too many requests, wait a moment before trying again"
		if strings.Contains(info.URL, "/session") {
			msg = "too many login attempts, wait a minute before trying again"
		}
		return &APIError{
			Category:    CategoryRateLimited,
			Message:     msg,
			StatusCode:  status,
			RateLimited: true,
		}
	case http.StatusBadRequest:
		msg := serverMessage(body)
		if msg == "" {
			msg = "invalid data"
		}
		if hasPendingDependents(msg) {
			msg = "this record has pending appointments, finish or cancel them before deleting"
		}
		return &APIError{
			Category:   CategoryValidation,
			Message:    msg,
			StatusCode: status,
		}
	case http.StatusInternalServerError:
		if isSerializationFault(body) {
			return &APIError{
				Category:   CategoryServerFault,
				Message:    "data formatting problem, simplified data will be loaded",
				StatusCode: status,
			}
		}
		return &APIError{
			Category:   CategoryServerFault,
			Message:    "internal server error, please try again later",
			StatusCode: status,
		}
	}

	msg := serverMessage(body)
	if msg == "" {
		msg = "an unexpected error occurred"
	}
	return &APIError{
		Category:   CategoryUnknown,
		Message:    msg,
		StatusCode: status,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isLocalBackend(rawURL string) bool {
	return strings.Contains(rawURL, "localhost:3333")
}

// hasPendingDependents detects the remote API's pending-appointments
// rejection, whose message may arrive in Portuguese.
func hasPendingDependents(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "pending") || strings.Contains(lower, "pendente")
}

// isSerializationFault detects the backend's BigInt serialization bug so
// callers can fall back to the simplified payload path.
func isSerializationFault(body []byte) bool {
	text := serverMessage(body)
	if text == "" {
		text = string(body)
	}
	return strings.Contains(text, "BigInt") || strings.Contains(strings.ToLower(text), "serialize")
}
