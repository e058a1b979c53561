// Package common defines shared constants and sentinel errors used across
// the server and client layers of passvault. Callers should use errors.Is to
// match these values; detail is attached by wrapping with fmt.Errorf("%w: ...").
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal             = errors.New("internal error")
	ErrorValidation           = errors.New("validation error")
	ErrorUnauthorized         = errors.New("unauthorized")
	ErrorPreconditionRequired = errors.New("secondary authentication required")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
