// Package services contains application services for the eclinic CLI.
// This file defines the authentication service: sign-in, sign-out, password
// reset, registration and a liveness check over the remote client.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eclinic/internal/client/client"
	"github.com/dmitrijs2005/eclinic/internal/client/login"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Authenticate, SignOut, SendPasswordReset: the login.IdentityProvider
//     used by the login controller.
//   - Register: create a new account on the server.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	login.IdentityProvider
	Register(ctx context.Context, email, password string) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var ErrInvalidRegistration = errors.New("email and password are required")

// authService is the concrete AuthService backed by a remote Client.
type authService struct {
	client client.Client
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

// Authenticate signs in against the server. The returned session carries the
// user id and access token the server issued.
func (a *authService) Authenticate(ctx context.Context, email, password string) (login.Session, error) {
	userID, token, err := a.client.SignIn(ctx, email, password)
	if err != nil {
		return login.Session{}, fmt.Errorf("sign in error: %w", err)
	}
	return login.Session{UserID: userID, AccessToken: token}, nil
}

func (a *authService) SignOut(ctx context.Context, session login.Session) error {
	if err := a.client.SignOut(ctx, session.AccessToken); err != nil {
		return fmt.Errorf("sign out error: %w", err)
	}
	return nil
}

// SendPasswordReset asks the server to mail a reset link. The error is
// returned unwrapped because its text is shown to the user.
func (a *authService) SendPasswordReset(ctx context.Context, email string) error {
	return a.client.SendPasswordReset(ctx, email)
}

// Register creates a new account on the server and returns its user id.
func (a *authService) Register(ctx context.Context, email, password string) (string, error) {
	if !login.Validate(email, password) {
		return "", ErrInvalidRegistration
	}
	return a.client.Register(ctx, email, password)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
