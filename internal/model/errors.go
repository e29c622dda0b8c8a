package model

import "errors"

var (
	// Account related errors
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	// Token related errors
	ErrTokenMissing = errors.New("authorization token is required")
	ErrTokenInvalid = errors.New("invalid or expired token")
)
