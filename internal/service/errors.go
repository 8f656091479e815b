package service

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying failures from the hosted platforms. Services wrap
// these with fmt.Errorf("...: %w", ...) so the API layer can map them to HTTP
// statuses with errors.Is while keeping the underlying detail.
var (
	// ErrConfig indicates missing or incomplete platform credentials.
	ErrConfig = errors.New("configuration incomplete")
	// ErrBadInput indicates invalid caller input detected before any outbound call.
	ErrBadInput = errors.New("invalid input")
	// ErrUnavailable indicates an unreachable upstream platform. Never retried.
	ErrUnavailable = errors.New("service unavailable")
	// ErrUnauthorized indicates the upstream rejected the caller's credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates the requested record is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation on insert.
	ErrConflict = errors.New("conflict")
)

// pgUniqueViolation is the SQLSTATE code for unique constraint violations.
const pgUniqueViolation = "23505"

// StoreError is a structured error decoded from a row-store (PostgREST) error
// response body.
type StoreError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("row store error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("row store error %d: %s", e.Status, e.Message)
}

// Is lets errors.Is classify the upstream error by its SQLSTATE code and HTTP
// status instead of matching message text.
func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrConflict:
		return e.Code == pgUniqueViolation
	case ErrUnauthorized:
		return e.Status == 401 || e.Status == 403
	}
	return false
}

// IsConflict reports whether err represents a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
