package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so callers can't probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTooManyAttempts is returned while an email is locked out after
	// repeated failed sign-ins.
	ErrTooManyAttempts = errors.New("too many sign-in attempts, try again later")

	// ErrEmailInUse is returned when signing up with a registered email.
	ErrEmailInUse = errors.New("email already in use")

	// ErrWeakPassword is returned when a password is shorter than MinPasswordLen.
	ErrWeakPassword = errors.New("password is too weak")
)
