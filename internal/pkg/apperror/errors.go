// Package apperror holds the error kinds that decide an API response status:
// AuthError (401), ValidationError (400 with issues) and StorageError (400 generic).
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

type AuthError struct {
	Reason string
	Err    error
}

func NewAuthError(reason string, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Issue is one field-level diagnostic. Path holds JSON keys (string) and
// array indices (int) from the document root.
type Issue struct {
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

func (i Issue) PathString() string {
	parts := make([]string, len(i.Path))
	for n, p := range i.Path {
		parts[n] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}

type ValidationError struct {
	Issues []Issue
}

func NewValidationError(issues ...Issue) *ValidationError {
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.PathString() + ": " + issue.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

func AsValidation(err error) (*ValidationError, bool) {
	var target *ValidationError
	ok := errors.As(err, &target)
	return target, ok
}

func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
