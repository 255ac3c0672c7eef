package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pg-portal/models"
)

var (
	ErrNoIdentity       = errors.New("session: no identity to store")
	ErrSessionExpired   = errors.New("session: token missing or expired")
	ErrMissingToken     = errors.New("auth: backend returned no token")
	ErrMutationInFlight = errors.New("mutation already in flight")
	ErrNoChange         = errors.New("nothing to update")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// Unwrap makes a 401 answer match ErrSessionExpired.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	return nil
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// ValidationError rejects a change before any request is made.
// Message is shown next to the form; Notice, when set, is also raised as a notification.
type ValidationError struct {
	Message string
	Notice  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// BulkCreateError reports a room batch in which some creates failed.
// Created holds the rooms the backend did accept; they exist and are not rolled back.
type BulkCreateError struct {
	Created []*models.Room
	Failed  []string
	Err     error
}

func (e *BulkCreateError) Error() string {
	return fmt.Sprintf("created %d of %d rooms, failed: %s: %v",
		len(e.Created), len(e.Created)+len(e.Failed), strings.Join(e.Failed, ", "), e.Err)
}

func (e *BulkCreateError) Unwrap() error {
	return e.Err
}

// Partial reports whether at least one room of the batch was created.
func (e *BulkCreateError) Partial() bool {
	return len(e.Created) > 0
}
