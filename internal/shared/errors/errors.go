package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError for logging and HTTP mapping.
type ErrorType string

const (
	ErrorTypeValidation          ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND_ERROR"
	ErrorTypePreconditionFailed  ErrorType = "PRECONDITION_FAILED"
	ErrorTypeAuthentication      ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeAuthorization       ErrorType = "AUTHORIZATION_ERROR"
	ErrorTypeAllocationExhausted ErrorType = "ALLOCATION_EXHAUSTED"
	ErrorTypeStorageUnavailable  ErrorType = "STORAGE_UNAVAILABLE"
	ErrorTypePartialFanOut       ErrorType = "PARTIAL_FANOUT"
	ErrorTypeInternal            ErrorType = "INTERNAL_ERROR"
)

// Codes refine an ErrorType when the HTTP layer needs to tell cases apart.
const (
	CodeConflict = "CONFLICT"
)

// Common application errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrConflict            = errors.New("concurrent modification")
	ErrAllocationExhausted = errors.New("counter reached max limit")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound).
		WithCause(ErrNotFound)
}

// NewPreconditionError reports a violated membership, ownership or business rule.
func NewPreconditionError(message string) *AppError {
	return NewAppError(ErrorTypePreconditionFailed, message, http.StatusPreconditionFailed).
		WithCause(ErrPreconditionFailed)
}

// NewConflictError reports a lost optimistic-concurrency race.
func NewConflictError(message string) *AppError {
	return NewAppError(ErrorTypePreconditionFailed, message, http.StatusConflict).
		WithCode(CodeConflict).
		WithCause(ErrConflict)
}

// NewAuthenticationError creates an authentication error
func NewAuthenticationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthentication, message, http.StatusUnauthorized).
		WithCause(ErrUnauthorized)
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthorization, message, http.StatusForbidden).
		WithCause(ErrForbidden)
}

// NewAllocationExhaustedError is returned when a counter bucket hits its ceiling.
func NewAllocationExhaustedError(bucket string) *AppError {
	return NewAppError(ErrorTypeAllocationExhausted, "counter reached max limit", http.StatusInsufficientStorage).
		WithDetail("bucket", bucket).
		WithCause(ErrAllocationExhausted)
}

// NewStorageUnavailableError wraps a transient storage failure. Callers may retry with backoff.
func NewStorageUnavailableError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeStorageUnavailable, message, http.StatusServiceUnavailable).
		WithCause(fmt.Errorf("%w: %w", ErrStorageUnavailable, cause))
}

// NewPartialFanOutError lists which participants were and were not written.
func NewPartialFanOutError(groupID string, applied []string, failed map[string]string) *AppError {
	return NewAppError(ErrorTypePartialFanOut, "group update applied to some participants only", http.StatusInternalServerError).
		WithDetail("groupId", groupID).
		WithDetail("applied", applied).
		WithDetail("failed", failed)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// WrapError wraps an error with context unless it already is an AppError.
func WrapError(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrStorageUnavailable) {
		return NewStorageUnavailableError(message, err)
	}
	return NewInternalError(message).WithCause(err)
}

// As returns the AppError inside err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return hasType(err, ErrorTypeNotFound) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsPrecondition checks if an error is a precondition (or conflict) error
func IsPrecondition(err error) bool {
	return hasType(err, ErrorTypePreconditionFailed) || errors.Is(err, ErrPreconditionFailed)
}

// IsConflict checks if an error is an optimistic-concurrency conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsAuthentication checks if an error is an authentication error
func IsAuthentication(err error) bool {
	return hasType(err, ErrorTypeAuthentication) || errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired)
}

// IsAuthorization checks if an error is an authorization error
func IsAuthorization(err error) bool {
	return hasType(err, ErrorTypeAuthorization) || errors.Is(err, ErrForbidden)
}

// IsAllocationExhausted checks if an error is a counter ceiling error
func IsAllocationExhausted(err error) bool {
	return hasType(err, ErrorTypeAllocationExhausted) || errors.Is(err, ErrAllocationExhausted)
}

// IsStorageUnavailable checks if an error is a transient storage error
func IsStorageUnavailable(err error) bool {
	return hasType(err, ErrorTypeStorageUnavailable) || errors.Is(err, ErrStorageUnavailable)
}

// IsPartialFanOut checks if an error reports a partially applied fan-out
func IsPartialFanOut(err error) bool {
	return hasType(err, ErrorTypePartialFanOut)
}

// HTTPStatus returns the status code for err, defaulting to 500.
func HTTPStatus(err error) int {
	if appErr, ok := As(err); ok && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsPrecondition(err):
		return http.StatusPreconditionFailed
	case IsAuthentication(err):
		return http.StatusUnauthorized
	case IsAuthorization(err):
		return http.StatusForbidden
	case IsAllocationExhausted(err):
		return http.StatusInsufficientStorage
	case IsStorageUnavailable(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
