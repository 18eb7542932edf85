package grpc

import (
	"context"

	"github.com/dmitrijs2005/eclinic/internal/common"
	"github.com/dmitrijs2005/eclinic/internal/logging"
	"github.com/dmitrijs2005/eclinic/internal/server/auth"
	"github.com/dmitrijs2005/eclinic/internal/server/models"
)

type fakeIdentity struct {
	registerID  string
	registerErr error
	session     models.Session
	signInErr   error
	signOutErr  error
	resetErr    error

	tokens map[string]*auth.Claims

	LastEmail    string
	LastPassword string
	LastSignOut  *auth.Claims
}

func (f *fakeIdentity) Register(ctx context.Context, email, password string) (string, error) {
	f.LastEmail, f.LastPassword = email, password
	return f.registerID, f.registerErr
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	f.LastEmail, f.LastPassword = email, password
	return f.session, f.signInErr
}

func (f *fakeIdentity) SignOut(ctx context.Context, claims *auth.Claims) error {
	f.LastSignOut = claims
	return f.signOutErr
}

func (f *fakeIdentity) SendPasswordReset(ctx context.Context, email string) error {
	f.LastEmail = email
	return f.resetErr
}

func (f *fakeIdentity) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	c, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return c, nil
}

type fakeDocuments struct {
	docs map[string]map[string]any
	err  error

	LastCollection string
	LastID         string
}

func (f *fakeDocuments) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	f.LastCollection, f.LastID = collection, id
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.docs[collection+"/"+id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

func claimsFor(userID string) *auth.Claims {
	c := &auth.Claims{UserID: userID}
	c.ID = "jti-" + userID
	return c
}

func newTestServer(id *fakeIdentity, docs *fakeDocuments) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.NewDiscard(), id, docs)
}
