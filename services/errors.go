package services

import "errors"

var (
	// ErrEmailTaken maps to 409.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown email, inactive account and wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers missing, malformed, expired and foreign tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound is returned when a valid token references a user that
	// no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
