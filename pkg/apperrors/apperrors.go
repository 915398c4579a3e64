package apperrors

import "errors"

// Error kinds raised by the domain services. The boundary layer maps each
// kind to an HTTP status via errors.Is, so services wrap these rather than
// inventing their own sentinels.
var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrForbidden           = errors.New("forbidden")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// E attaches a caller-facing message to one of the kind sentinels.
func E(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// NotFound reports a missing Customer, Asset, or eligible Order.
func NotFound(msg string) error {
	return E(ErrNotFound, msg)
}

// InsufficientBalance reports a reservation exceeding the available balance.
func InsufficientBalance(msg string) error {
	return E(ErrInsufficientBalance, msg)
}

// InvalidArgument reports malformed domain input.
func InvalidArgument(msg string) error {
	return E(ErrInvalidArgument, msg)
}

// Forbidden reports an authorization rejection.
func Forbidden(msg string) error {
	return E(ErrForbidden, msg)
}
