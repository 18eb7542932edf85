package login

import "strings"

// Validate reports whether both email and password are non-blank.
func Validate(email, password string) bool {
	return ValidateEmail(email) && strings.TrimSpace(password) != ""
}

// ValidateEmail reports whether email is non-blank. It is the only
// precondition of a password reset.
func ValidateEmail(email string) bool {
	return strings.TrimSpace(email) != ""
}
