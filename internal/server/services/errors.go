package services

import "errors"

// Errors returned to clients. Their text is user-facing.
var (
	ErrInvalidEmail       = errors.New("the email address is badly formatted")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrEmailInUse         = errors.New("the email address is already in use by another account")
	ErrInvalidCredentials = errors.New("the password is invalid or the user does not exist")
	ErrInvalidResetToken  = errors.New("the password reset link is invalid or has expired")
)
