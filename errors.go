package main

import (
	"errors"
	"fmt"
)

// APIError is the decoded failure body of the remote store:
// {"detail": "...", "code": "...", "fields": {...}} plus the HTTP status.
type APIError struct {
	Status int
	Detail string
	Code   string
	Fields map[string]any
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Detail, e.Code)
	}
	return e.Detail
}

// IsUnauthorized reports whether err is a 401 from the store. The session
// invalidation that follows is owned by the surrounding shell; the board
// only reports it.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 401
}

// LoadError wraps a failed board or evidence-list fetch. Retryable; no
// partial state is rendered on load failure.
type LoadError struct {
	Op  string
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Op, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// MutationError wraps a failed create/move/delete of an item or connection.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }
func (e *MutationError) Unwrap() error { return e.Err }

// ValidationError is a client-side rejection raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

// ExportError reports a failed PNG export. Export never mutates board state.
type ExportError struct {
	Reason string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export: %s: %v", e.Reason, e.Err)
	}
	return "export: " + e.Reason
}

func (e *ExportError) Unwrap() error { return e.Err }
