package shared

import "errors"

var (
	// ErrNotFound indicates a missing or soft-deleted resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid occurs when a bearer token is unknown.
	ErrTokenInvalid = errors.New("invalid api token")
	// ErrTokenExpired occurs when a bearer token exists but is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)
