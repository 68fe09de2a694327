package accountmanagement

import "errors"

// Error taxonomy of the authentication subsystem. Store layer errors abort
// the current operation, ErrInvalidOrExpiredCode leaves the account state
// untouched so the user can retry or request a new code.
var (
	// ErrUnauthenticated is returned when an operation that requires a
	// resolved identity is invoked without one.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAccountNotFound is returned when the session references a record
	// that is absent from the store.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidOrExpiredCode is returned when the submitted OTP does not
	// match the stored secret or the challenge has expired.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")

	// ErrWrongCredentials is returned when the email/password combination
	// is rejected.
	ErrWrongCredentials = errors.New("invalid email or password")

	// ErrAccountExists is returned on signup when the email address is
	// already registered.
	ErrAccountExists = errors.New("account already exists")
)
