package model

import "errors"

var (
	// User related errors
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// Session related errors
	ErrNoActiveSession      = errors.New("no active session")
	ErrRefreshCookieMissing = errors.New("refresh cookie missing")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
