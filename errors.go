package foodcart

import (
	"errors"
	"fmt"
	"time"
)

// Error codes
const (
	ErrCodeStorageRead  = "STORAGE_READ_ERROR"
	ErrCodeStorageWrite = "STORAGE_WRITE_ERROR"
	ErrCodeParse        = "PARSE_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeConflict     = "CONFLICT"
)

// StorefrontError is the error type returned across component boundaries.
type StorefrontError struct {
	Message   string            `json:"message"`
	Code      string            `json:"code"`
	Key       string            `json:"key,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`

	cause error
}

// Error implements the error interface
func (e *StorefrontError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Key != "" {
		msg = fmt.Sprintf("%s (key: %s)", msg, e.Key)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *StorefrontError) Unwrap() error {
	return e.cause
}

// NewStorefrontError creates a new error with the given code
func NewStorefrontError(code, message string) *StorefrontError {
	return &StorefrontError{
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// WithKey records the storage key involved.
func (e *StorefrontError) WithKey(key string) *StorefrontError {
	e.Key = key
	return e
}

// WithCause attaches the underlying error.
func (e *StorefrontError) WithCause(err error) *StorefrontError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *StorefrontError) WithDetails(details map[string]string) *StorefrontError {
	e.Details = details
	return e
}

// StorageReadError wraps a failed BlobStore.Get.
func StorageReadError(key string, err error) *StorefrontError {
	return NewStorefrontError(ErrCodeStorageRead, "failed to read from storage").WithKey(key).WithCause(err)
}

// StorageWriteError wraps a failed BlobStore.Set or BlobStore.Delete.
func StorageWriteError(key string, err error) *StorefrontError {
	return NewStorefrontError(ErrCodeStorageWrite, "failed to write to storage").WithKey(key).WithCause(err)
}

// ParseError reports a persisted blob that does not match its schema.
func ParseError(key string, err error) *StorefrontError {
	return NewStorefrontError(ErrCodeParse, "malformed persisted data").WithKey(key).WithCause(err)
}

func codeOf(err error) string {
	var se *StorefrontError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsStorageError checks if an error is a storage read or write failure
func IsStorageError(err error) bool {
	code := codeOf(err)
	return code == ErrCodeStorageRead || code == ErrCodeStorageWrite
}

// IsParseError checks if an error is a malformed persisted blob
func IsParseError(err error) bool {
	return codeOf(err) == ErrCodeParse
}

// IsNotFoundError checks if an error is a missing item or account
func IsNotFoundError(err error) bool {
	return codeOf(err) == ErrCodeNotFound
}

// IsValidationError checks if an error is a rejected input
func IsValidationError(err error) bool {
	return codeOf(err) == ErrCodeValidation
}

// IsUnauthorizedError checks if an error is a failed credential check or missing session
func IsUnauthorizedError(err error) bool {
	return codeOf(err) == ErrCodeUnauthorized
}

// IsConflictError checks if an error is a duplicate registration
func IsConflictError(err error) bool {
	return codeOf(err) == ErrCodeConflict
}

// UserMessage converts err into a short notice suitable for showing to a shopper.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *StorefrontError
	if !errors.As(err, &se) {
		return "Something went wrong. Please try again."
	}
	switch se.Code {
	case ErrCodeStorageRead, ErrCodeParse:
		return "Could not load your data."
	case ErrCodeStorageWrite:
		return "Could not save your changes."
	case ErrCodeNotFound, ErrCodeValidation, ErrCodeUnauthorized, ErrCodeConflict:
		return se.Message
	default:
		return "Something went wrong. Please try again."
	}
}
