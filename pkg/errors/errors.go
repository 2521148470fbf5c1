package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. Details carry
// structured metadata such as the colliding meeting id on booking conflicts.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Booking failure taxonomy. Every kind maps to a stable code so the calling
// layer can render a specific message instead of a generic failure.
var (
	ErrUnsupportedMeetingType = New("UNSUPPORTED_MEETING_TYPE", http.StatusBadRequest, "unsupported meeting type")
	ErrOutsideAvailability    = New("OUTSIDE_AVAILABILITY", http.StatusBadRequest, "requested time is outside availability")
	ErrBookingConflict        = New("BOOKING_CONFLICT", http.StatusConflict, "requested time collides with an existing meeting")
	ErrBlockedByVacation      = New("BLOCKED_BY_VACATION", http.StatusBadRequest, "requested time falls inside a system vacation")
	ErrBlockedByTimeOff       = New("BLOCKED_BY_TIME_OFF", http.StatusBadRequest, "requested time falls inside admin time off")
	ErrQuotaExceeded          = New("QUOTA_EXCEEDED", http.StatusBadRequest, "monthly follow-up quota exceeded")
	ErrAdminNotFound          = New("ADMIN_NOT_FOUND", http.StatusNotFound, "admin not found")
	ErrMeetingsDisabled       = New("MEETINGS_DISABLED", http.StatusBadRequest, "meetings are disabled for this admin")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of the error carrying structured metadata.
func WithDetails(err *Error, details map[string]interface{}) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = details
	return &clone
}

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == target.Code
}
