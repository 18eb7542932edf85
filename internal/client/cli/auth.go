package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/eclinic/internal/client/login"
	"github.com/dmitrijs2005/eclinic/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignIn prompts for credentials and runs the login controller. The outcome
// is shown by the notification banner; the returned error is for the REPL.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	state, err := a.controller.SignIn(ctx, login.Credentials{Email: email, Password: string(password)})
	if errors.Is(err, login.ErrBusy) {
		a.println("A request is already in progress.")
		return err
	}
	if state == login.StateAdmitted {
		a.userEmail = strings.TrimSpace(email)
		a.println("Welcome!")
	}
	return err
}

// ResetPassword asks for an email and requests a reset link for it.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	return a.controller.ResetPassword(ctx, email)
}

// SignUp hands off to the registration screen and runs it.
func (a *App) SignUp(ctx context.Context) error {
	a.controller.RequestSignUp()
	if a.screen != ScreenSignUp {
		return nil
	}
	defer func() { a.screen = ScreenLogin }()
	return a.Register(ctx)
}

// Admin hands off to the admin entry point. Administrators use a separate
// console, so the CLI only reports the hand-off.
func (a *App) Admin(ctx context.Context) error {
	a.controller.RequestAdminEntry()
	if a.screen != ScreenAdmin {
		return nil
	}
	a.println("Administrators sign in through the admin console.")
	a.screen = ScreenLogin
	return nil
}

// Register prompts the user for an email and password and attempts to create
// a new account via the AuthService.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is wiped before returning. Any I/O or service error is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.Register(ctx, strings.TrimSpace(email), string(password)); err != nil {
		a.println("Registration failed: " + err.Error())
		return err
	}

	a.println("Success! You can sign in now.")
	return nil
}

// Logout revokes the session on the server and returns to the login screen.
// The local session is dropped even if the server call fails.
func (a *App) Logout(ctx context.Context) error {
	if a.session == nil {
		return nil
	}

	err := a.authService.SignOut(ctx, *a.session)
	if err != nil {
		a.logger.Warn(ctx, "sign out failed", "error", err)
	}

	a.session = nil
	a.userEmail = ""
	a.screen = ScreenLogin
	a.controller.Reset()
	a.notifier.Clear()
	a.println("Signed out.")
	return err
}
