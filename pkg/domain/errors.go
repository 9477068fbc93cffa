package domain

import "errors"

// Common domain errors. Entity packages wrap these so callers can
// classify failures with errors.Is.
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned when a user is not authorized to perform an action
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a user is not allowed to perform an action
	ErrForbidden = errors.New("forbidden")
	// ErrUnsupportedMedia is returned when an uploaded file has a rejected type
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrServiceUnavailable is returned when a downstream collaborator
	// (notification transport, currency provider) fails
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrInsufficientFunds is returned when a debit would leave a negative balance
	ErrInsufficientFunds = errors.New("insufficient funds")
)
