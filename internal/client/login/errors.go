package login

import (
	"errors"
	"fmt"
)

// User-visible messages.
const (
	MsgFillAllFields        = "Please fill out all the fields"
	MsgIncorrectCredentials = "Incorrect password or email"
	MsgUserNotFound         = "User not found."
	MsgLookupFailedPrefix   = "Error fetching user data: "
	MsgNotAuthorizedAsUser  = "You are not authorized as a user."
	MsgEnterEmailForReset   = "Please enter your email address to reset your password"
	MsgResetSentFormat      = "Password reset email sent to %s"
	MsgResetFailed          = "Failed to send password reset email"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrAuthentication      = errors.New("authentication failed")
	ErrSessionResolution   = errors.New("session has no user id")
	ErrAuthorizationLookup = errors.New("authorization lookup failed")
	ErrAuthorizationDenied = errors.New("account is not allowed at this entry point")
	ErrResetRequest        = errors.New("password reset request failed")

	// ErrBusy is returned when a sequence is requested while another one is
	// still in flight. It never touches the notification.
	ErrBusy = errors.New("another login request is in progress")
)

// FlowError is the error returned by a failed sequence. Kind is one of the
// sentinels above, Message is what the banner shows and Err, when set, is the
// collaborator error behind it.
type FlowError struct {
	Kind    error
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
