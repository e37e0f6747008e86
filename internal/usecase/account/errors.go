// Package account provides use cases for account registration, sign-in,
// token refresh, and profile lookup.
package account

import "errors"

// Sentinel errors for account use case operations.
var (
	// ErrEmailTaken indicates that the email address is already registered.
	ErrEmailTaken = errors.New("email address already registered")

	// ErrInvalidCredentials indicates that the email/password pair does not
	// match a registered account. Deliberately indistinguishable from an
	// unknown email to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidRefreshToken indicates that the refresh token is unknown,
	// already rotated, or empty.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrAccountNotFound indicates that the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)
