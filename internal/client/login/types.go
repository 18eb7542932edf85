package login

import "context"

type State string

const (
	StateIdle                  State = "idle"
	StateValidating            State = "validating"
	StateAuthenticating        State = "authenticating"
	StateCheckingAuthorization State = "checking_authorization"
	StateAdmitted              State = "admitted"
	StateRejected              State = "rejected"
	StateFailed                State = "failed"
)

// Terminal reports whether s ends a sign-in sequence.
func (s State) Terminal() bool {
	return s == StateAdmitted || s == StateRejected || s == StateFailed
}

// Credentials are held only for the duration of one submission.
type Credentials struct {
	Email    string
	Password string
}

// Session is the identity handle issued by the provider on sign-in.
type Session struct {
	UserID      string
	AccessToken string
}

// AuthorizationRecord is the per-user record kept in the document store.
// A record without an admin flag reads as IsAdmin == false.
type AuthorizationRecord struct {
	UserID  string
	IsAdmin bool
}

// IdentityProvider verifies credentials and owns sessions.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, session Session) error
	SendPasswordReset(ctx context.Context, email string) error
}

// AuthorizationStore reads authorization records by user id.
type AuthorizationStore interface {
	GetAuthorizationRecord(ctx context.Context, userID string) (AuthorizationRecord, error)
}

// Callbacks are the navigation triggers handed to the presentation layer.
// Nil callbacks are skipped.
type Callbacks struct {
	OnAdmitted        func(Session)
	OnSignUpRequested func()
	OnAdminRequested  func()
}
