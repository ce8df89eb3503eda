package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrStorage         = errors.New("storage failure")

	ErrAuth              = errors.New("authentication failed")
	ErrSignatureMismatch = fmt.Errorf("%w: signature does not match address", ErrAuth)
	ErrNonceNotFound     = fmt.Errorf("%w: nonce expired or not issued", ErrAuth)

	// ErrTokenSigning is a server misconfiguration, not a caller error.
	ErrTokenSigning = errors.New("token signing is not configured")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
