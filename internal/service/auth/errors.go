// Package auth provides authentication services for the application,
// including JWT session token management and password verification.
package auth

import "errors"

// Common authentication errors.
var (
	// ErrInvalidToken is returned when a token is malformed, has an invalid
	// signature, or fails validation for any reason other than expiry.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's NotBefore claim is in
	// the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")
)
