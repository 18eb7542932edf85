// Package login implements the login screen's request flow.
//
// A Controller drives three sequences against injected collaborators:
//
//   - SignIn: validate both fields, authenticate with the IdentityProvider,
//     look up the user's AuthorizationRecord, then either admit the user
//     (non-admin accounts only) or sign the session out again and reject it.
//   - ResetPassword: validate the email and ask the provider to send a reset
//     email.
//   - RequestSignUp / RequestAdminEntry: plain navigation handoffs.
//
// Every failure ends as an error on the notify.Notifier banner; admission
// clears the banner and calls Callbacks.OnAdmitted. The Controller runs one
// sequence at a time and answers ErrBusy to overlapping requests.
package login
