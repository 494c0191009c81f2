package errors

import "errors"

// Domain errors surfaced to handlers. Each maps to exactly one HTTP status;
// none of them is retriable.
var (
	ErrInvalidRange       = errors.New("return date must be after pickup date")
	ErrCarNotFound        = errors.New("car not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDatesConflict      = errors.New("car is not available for selected dates")
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrInvalidTransition  = errors.New("booking can no longer be cancelled")
	ErrForbidden          = errors.New("operation not allowed")
	ErrEmailExists        = errors.New("email already exists in database")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("account is deactivated")
)
