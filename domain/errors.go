package domain

import (
	"errors"
	"fmt"
)

var (
	// General errors
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// Credential errors
	ErrInvalidCredentials = Reason(ErrUnauthorized, "invalid email or password")
	ErrEmailTaken         = Reason(ErrConflict, "email is already registered")

	// Enrollment errors
	ErrDuplicateEnrollment = Reason(ErrConflict, "already enrolled in this course")
	ErrEnrollmentCompleted = Reason(ErrConflict, "enrollment is already completed")
	ErrQuotaExceeded       = errors.New("course quota is full")

	// Badge errors
	ErrBadgeNotConfigured = errors.New("no badge is configured for this course")
	ErrAlreadyClaimed     = Reason(ErrConflict, "badge already claimed")
	ErrCourseNotCompleted = errors.New("course must be completed before claiming its badge")

	// Mentoring errors
	ErrSessionFull = errors.New("mentoring session is fully booked")

	// Job errors
	ErrDuplicateApplication = Reason(ErrConflict, "already applied for this job")
)

// reasonError carries a client-facing message while still matching its kind with errors.Is.
type reasonError struct {
	kind error
	msg  string
}

func (e *reasonError) Error() string { return e.msg }
func (e *reasonError) Unwrap() error { return e.kind }

// Reason returns an error whose message is msg and which matches kind.
func Reason(kind error, msg string) error {
	return &reasonError{kind: kind, msg: msg}
}

// Invalid returns a validation error with the given message.
func Invalid(format string, args ...any) error {
	return Reason(ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns "<entity> not found" matching ErrNotFound.
func NotFound(entity string) error {
	return Reason(ErrNotFound, entity+" not found")
}
