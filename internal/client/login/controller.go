package login

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/eclinic/internal/client/notify"
	"github.com/dmitrijs2005/eclinic/internal/logging"
)

type Controller struct {
	identity  IdentityProvider
	authz     AuthorizationStore
	notifier  *notify.Notifier
	callbacks Callbacks
	logger    logging.Logger

	mu    sync.Mutex
	state State
	busy  bool
}

func NewController(identity IdentityProvider, authz AuthorizationStore, notifier *notify.Notifier, callbacks Callbacks, logger logging.Logger) *Controller {
	return &Controller{
		identity:  identity,
		authz:     authz,
		notifier:  notifier,
		callbacks: callbacks,
		logger:    logger.With("module", "login"),
		state:     StateIdle,
	}
}

// State returns the state of the current or last sign-in sequence.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a sequence is in flight. The presentation layer uses it
// to disable its inputs.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Reset returns an idle controller to StateIdle, e.g. after logout.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.busy {
		c.state = StateIdle
	}
}

// SignIn runs the sign-in sequence and returns its terminal state. A nil
// error means StateAdmitted; otherwise the error is a *FlowError (or ErrBusy)
// and the banner shows its message.
func (c *Controller) SignIn(ctx context.Context, creds Credentials) (State, error) {
	if !c.begin() {
		return c.State(), ErrBusy
	}

	state, session, err := c.signIn(ctx, creds)
	c.finish(state)

	c.logger.Info(ctx, "sign-in finished", "state", state)
	if state == StateAdmitted && c.callbacks.OnAdmitted != nil {
		c.callbacks.OnAdmitted(session)
	}
	return state, err
}

func (c *Controller) signIn(ctx context.Context, creds Credentials) (State, Session, error) {
	c.setState(StateValidating)
	if !Validate(creds.Email, creds.Password) {
		return c.fail(ErrValidation, MsgFillAllFields, nil)
	}
	email := strings.TrimSpace(creds.Email)

	c.setState(StateAuthenticating)
	session, err := c.identity.Authenticate(ctx, email, creds.Password)
	if err != nil {
		// The provider's reason stays in the log so the banner cannot tell
		// which field was wrong.
		c.logger.Warn(ctx, "authentication rejected", "email", email, "error", err)
		return c.fail(ErrAuthentication, MsgIncorrectCredentials, err)
	}
	if strings.TrimSpace(session.UserID) == "" {
		return c.fail(ErrSessionResolution, MsgUserNotFound, nil)
	}

	c.setState(StateCheckingAuthorization)
	record, err := c.authz.GetAuthorizationRecord(ctx, session.UserID)
	if err != nil {
		c.logger.Error(ctx, "authorization lookup failed", "user_id", session.UserID, "error", err)
		return c.fail(ErrAuthorizationLookup, MsgLookupFailedPrefix+err.Error(), err)
	}

	if record.IsAdmin {
		if err := c.identity.SignOut(ctx, session); err != nil {
			c.logger.Warn(ctx, "sign-out of rejected session failed", "user_id", session.UserID, "error", err)
		}
		c.notifier.SetError(MsgNotAuthorizedAsUser)
		return StateRejected, Session{}, &FlowError{Kind: ErrAuthorizationDenied, Message: MsgNotAuthorizedAsUser}
	}

	c.notifier.Clear()
	return StateAdmitted, session, nil
}

// ResetPassword asks the provider to email a reset link to email.
func (c *Controller) ResetPassword(ctx context.Context, email string) error {
	if !c.begin() {
		return ErrBusy
	}
	defer c.release()

	if !ValidateEmail(email) {
		c.notifier.SetError(MsgEnterEmailForReset)
		return &FlowError{Kind: ErrValidation, Message: MsgEnterEmailForReset}
	}
	email = strings.TrimSpace(email)

	if err := c.identity.SendPasswordReset(ctx, email); err != nil {
		msg := err.Error()
		if strings.TrimSpace(msg) == "" {
			msg = MsgResetFailed
		}
		c.logger.Warn(ctx, "password reset request failed", "email", email, "error", err)
		c.notifier.SetError(msg)
		return &FlowError{Kind: ErrResetRequest, Message: msg, Err: err}
	}

	c.logger.Info(ctx, "password reset requested", "email", email)
	c.notifier.SetSuccess(fmt.Sprintf(MsgResetSentFormat, email))
	return nil
}

// RequestSignUp hands off to the sign-up screen.
func (c *Controller) RequestSignUp() {
	if c.callbacks.OnSignUpRequested != nil {
		c.callbacks.OnSignUpRequested()
	}
}

// RequestAdminEntry hands off to the admin login screen.
func (c *Controller) RequestAdminEntry() {
	if c.callbacks.OnAdminRequested != nil {
		c.callbacks.OnAdminRequested()
	}
}

func (c *Controller) fail(kind error, msg string, cause error) (State, Session, error) {
	c.notifier.SetError(msg)
	return StateFailed, Session{}, &FlowError{Kind: kind, Message: msg, Err: cause}
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

func (c *Controller) finish(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.busy = false
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}
