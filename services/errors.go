package services

import "errors"

// Sentinel errors returned by the services so controllers can map each
// anticipated condition to its status code. Anything else is a 500.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUser     = errors.New("user already exists")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrResetTokenInvalid = errors.New("invalid reset token")
	ErrResetTokenExpired = errors.New("reset token expired")
	ErrSamePassword      = errors.New("new password matches the current password")
	ErrCityNotFound      = errors.New("city not found")
)
