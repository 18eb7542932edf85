package client

import "context"

// Client is the transport contract the CLI services depend on.
type Client interface {
	Close() error
	Register(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (userID, accessToken string, err error)
	SignOut(ctx context.Context, accessToken string) error
	SendPasswordReset(ctx context.Context, email string) error
	GetUserDocument(ctx context.Context, userID string) (map[string]any, error)
	Ping(ctx context.Context) error
}
