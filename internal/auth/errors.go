package auth

import "github.com/pkg/errors"

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	// ErrMissingSecret is returned when AUTH_TOKEN_SECRET is empty; no token is ever accepted.
	ErrMissingSecret = errors.New("token secret not configured")
)
