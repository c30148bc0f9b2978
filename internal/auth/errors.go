package auth

import (
	"errors"
	"fmt"
)

// ErrValidation marks sign-up or account input rejected locally.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidEmail     = fmt.Errorf("%w: please enter a valid email address", ErrValidation)
	ErrInvalidPhone     = fmt.Errorf("%w: please enter a valid phone number", ErrValidation)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least 6 characters long", ErrValidation)
	ErrMissingField     = fmt.Errorf("%w: required field is missing", ErrValidation)
	ErrInvalidRole      = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrNothingToUpdate  = fmt.Errorf("%w: nothing to update", ErrValidation)
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("user already registered")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrSessionRevoked     = errors.New("session has been signed out")
	ErrForbidden          = errors.New("insufficient role")
)
