// Package mail delivers password reset links.
package mail

import (
	"context"
	"html"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, resetURL string) error
}

const resetSubject = "Reset your eclinic password"

func resetBody(resetURL string) string {
	u := html.EscapeString(resetURL)
	return `<p>We received a request to reset your eclinic password.</p>
<p><a href="` + u + `">Choose a new password</a></p>
<p>If you did not ask for this, ignore this email.</p>`
}
