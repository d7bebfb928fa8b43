package domain

import "fmt"

// Error types for consistent error handling across the API.

// ErrNotFound indicates a referenced row is absent or not owned by the caller.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrValidation indicates missing or malformed input.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("invalid value for '%s'", e.Field)
}

// ErrAlreadyExists indicates a duplicate create (saved property, account).
type ErrAlreadyExists struct {
	Message string
}

func (e *ErrAlreadyExists) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "already exists"
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

// ErrForbidden indicates a token that was presented but cannot be accepted.
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "forbidden"
}

// ErrExternalService indicates a failure in a managed backend call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrUnreachable indicates the API could not be contacted at all
// (server down, DNS, refused connection). Produced by the client facade.
type ErrUnreachable struct {
	BaseURL string
	Err     error
}

func (e *ErrUnreachable) Error() string {
	return fmt.Sprintf("Cannot reach the backend at %s. Make sure the API server is running, then open %s/health to verify connectivity.", e.BaseURL, e.BaseURL)
}

func (e *ErrUnreachable) Unwrap() error {
	return e.Err
}
