package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers an unknown email, a wrong password and an inactive account alike
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrTenantSuspended    = errors.New("tenant is suspended")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed")
)

// ValidationError represents malformed input on one field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// ConflictError represents a resource conflict (e.g., already exists)
type ConflictError struct {
	Resource string `json:"resource"`
	Message  string `json:"message"`
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError creates a new conflict error
func NewConflictError(resource, message string) *ConflictError {
	return &ConflictError{Resource: resource, Message: message}
}

// IsConflictError checks if an error is a ConflictError
func IsConflictError(err error) (*ConflictError, bool) {
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return conflictErr, true
	}
	return nil, false
}

// NotFoundError is returned both for missing rows and rows owned by another tenant
type NotFoundError struct {
	Resource string `json:"resource"`
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) (*NotFoundError, bool) {
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return notFoundErr, true
	}
	return nil, false
}

// ForbiddenError means the caller is authenticated but may not perform the operation
type ForbiddenError struct {
	Message string `json:"message"`
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// IsForbiddenError checks if an error is a ForbiddenError
func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var forbiddenErr *ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return forbiddenErr, true
	}
	return nil, false
}

// LimitExceededError reports a subscription cap that is already reached
type LimitExceededError struct {
	Resource string `json:"resource"`
	Current  int64  `json:"current"`
	Limit    int    `json:"limit"`
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit reached. Current: %d, Limit: %d", e.Resource, e.Current, e.Limit)
}

// IsLimitExceededError checks if an error is a LimitExceededError
func IsLimitExceededError(err error) (*LimitExceededError, bool) {
	var limitErr *LimitExceededError
	if errors.As(err, &limitErr) {
		return limitErr, true
	}
	return nil, false
}

// SuperAdminCannotCreateError rejects creation of tenant-owned rows by the super-admin
type SuperAdminCannotCreateError struct {
	Resource string `json:"resource"`
}

func (e *SuperAdminCannotCreateError) Error() string {
	return fmt.Sprintf("Super admin cannot create %s. Please login as a tenant admin or user.", e.Resource)
}

// IsSuperAdminCannotCreateError checks if an error is a SuperAdminCannotCreateError
func IsSuperAdminCannotCreateError(err error) (*SuperAdminCannotCreateError, bool) {
	var saErr *SuperAdminCannotCreateError
	if errors.As(err, &saErr) {
		return saErr, true
	}
	return nil, false
}

// HashingError is an infrastructure failure of the password hasher, never a credential mismatch
type HashingError struct {
	Err error
}

func (e *HashingError) Error() string {
	return "password hashing failed: " + e.Err.Error()
}

func (e *HashingError) Unwrap() error { return e.Err }

// IsHashingError checks if an error is a HashingError
func IsHashingError(err error) (*HashingError, bool) {
	var hashErr *HashingError
	if errors.As(err, &hashErr) {
		return hashErr, true
	}
	return nil, false
}

// TokenInfrastructureError is a failure to sign a token
type TokenInfrastructureError struct {
	Err error
}

func (e *TokenInfrastructureError) Error() string {
	return "token signing failed: " + e.Err.Error()
}

func (e *TokenInfrastructureError) Unwrap() error { return e.Err }

// IsTokenInfrastructureError checks if an error is a TokenInfrastructureError
func IsTokenInfrastructureError(err error) (*TokenInfrastructureError, bool) {
	var tokenErr *TokenInfrastructureError
	if errors.As(err, &tokenErr) {
		return tokenErr, true
	}
	return nil, false
}

// IsUnauthenticated reports whether err should surface as a bare 401
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrTokenMalformed)
}
