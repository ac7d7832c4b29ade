package auth

import "errors"

var (
	// ErrInvalidCredentials indicates that password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited indicates that client exceeded login attempts
	ErrRateLimited = errors.New("too many login attempts")
)
