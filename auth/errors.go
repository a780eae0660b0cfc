package auth

import "errors"

// Sentinel errors for session authentication.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrLoginFailed        = errors.New("auth: login failed")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrTokenMalformed     = errors.New("auth: token malformed")
	ErrSessionClosed      = errors.New("auth: session is logged out")
)
