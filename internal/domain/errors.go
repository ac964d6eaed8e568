package domain

import "fmt"

// Error types for consistent error handling across the API.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrNotConfigured indicates a required client or component was never
// installed. Calling the backend before configuration is a programming
// error, not a transient condition.
type ErrNotConfigured struct {
	Component string
}

func (e *ErrNotConfigured) Error() string {
	return fmt.Sprintf("%s is not configured", e.Component)
}

// ErrBackend indicates the graph backend rejected an operation
// (validation, permission, schema mismatch on the remote side).
type ErrBackend struct {
	Operation string
	Err       error
}

func (e *ErrBackend) Error() string {
	return fmt.Sprintf("backend error [%s]: %v", e.Operation, e.Err)
}

func (e *ErrBackend) Unwrap() error {
	return e.Err
}

// ErrSchemaMismatch indicates every candidate filter or update shape was
// rejected by the backend. Individual shape failures are expected schema
// drift and never surface; only exhaustion does.
type ErrSchemaMismatch struct {
	Entity string
	Tried  int
	Last   error
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("all %d shapes rejected for %s: %v", e.Tried, e.Entity, e.Last)
}

func (e *ErrSchemaMismatch) Unwrap() error {
	return e.Last
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates invalid credentials or token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrForbidden indicates the user lacks permission for the operation.
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Action)
}

// ErrConflict indicates a resource already exists (e.g. duplicate email).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrAccessExpired indicates the user's access window has ended.
type ErrAccessExpired struct {
	UserID string
}

func (e *ErrAccessExpired) Error() string {
	return fmt.Sprintf("access window expired for user %s", e.UserID)
}
