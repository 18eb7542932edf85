package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/eclinic/internal/common"
	"github.com/dmitrijs2005/eclinic/internal/rpc"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

/*************
 * Fake rpc client
 *************/

type fakeRPC struct {
	// inputs captured
	lastRegisterReq *structpb.Struct
	lastSignInReq   *structpb.Struct
	lastResetReq    *structpb.Struct
	lastGetDocReq   *structpb.Struct
	lastSignOutMD   metadata.MD

	// outputs preset
	registerResp *structpb.Struct
	registerErr  error

	signInResp *structpb.Struct
	signInErr  error

	signOutErr error
	resetErr   error

	getDocResp *structpb.Struct
	getDocErr  error

	pingResp *structpb.Struct
	pingErr  error
}

func (f *fakeRPC) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastRegisterReq = in
	return f.registerResp, f.registerErr
}
func (f *fakeRPC) SignIn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastSignInReq = in
	return f.signInResp, f.signInErr
}
func (f *fakeRPC) SignOut(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	f.lastSignOutMD, _ = metadata.FromOutgoingContext(ctx)
	return &emptypb.Empty{}, f.signOutErr
}
func (f *fakeRPC) SendPasswordReset(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	f.lastResetReq = in
	return &emptypb.Empty{}, f.resetErr
}
func (f *fakeRPC) GetDocument(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastGetDocReq = in
	return f.getDocResp, f.getDocErr
}
func (f *fakeRPC) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.pingResp, f.pingErr
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_AttachesStoredToken(t *testing.T) {
	c := &GRPCClient{accessToken: "A1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Equal(t, []string{"A1"}, toks)
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(context.Background(), rpc.MethodGetDocument, nil, nil, nil, invoker))
}

func TestInterceptor_KeepsExplicitToken(t *testing.T) {
	c := &GRPCClient{accessToken: "stored"}
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "explicit")

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Equal(t, []string{"explicit"}, md.Get(common.AccessTokenHeaderName))
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(ctx, rpc.MethodSignOut, nil, nil, nil, invoker))
}

func TestInterceptor_NoTokenNoMetadata(t *testing.T) {
	c := &GRPCClient{}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return status.Error(codes.Internal, "boom")
	}

	require.Error(t, c.accessTokenInterceptor(context.Background(), rpc.MethodPing, nil, nil, nil, invoker))
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.Nil(t, c.mapError(nil))
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.Unauthenticated, "x")))
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.PermissionDenied, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))
	require.Equal(t, ErrNotFound, c.mapError(status.Error(codes.NotFound, "x")))

	err := c.mapError(status.Error(codes.InvalidArgument, "badly formatted email"))
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	require.Equal(t, codes.InvalidArgument, re.Code)
	require.EqualError(t, err, "badly formatted email")

	e := errors.New("plain")
	require.ErrorContains(t, c.mapError(e), "rpc error:")
	require.ErrorIs(t, c.mapError(e), e)
}

/*************
 * Ping tests
 *************/

func TestPing_OK(t *testing.T) {
	f := &fakeRPC{pingResp: mustStruct(t, map[string]any{rpc.FieldStatus: rpc.StatusOK})}
	c := &GRPCClient{client: f}
	require.NoError(t, c.Ping(context.Background()))
}

func TestPing_NotOK_ReturnsUnavailable(t *testing.T) {
	f := &fakeRPC{pingResp: mustStruct(t, map[string]any{rpc.FieldStatus: "NOT_OK"})}
	c := &GRPCClient{client: f}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestPing_MapsRPCError(t *testing.T) {
	f := &fakeRPC{pingErr: status.Error(codes.Unavailable, "down")}
	c := &GRPCClient{client: f}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

/*************
 * Register / SignIn / SignOut tests
 *************/

func TestRegister_Success(t *testing.T) {
	f := &fakeRPC{registerResp: mustStruct(t, map[string]any{rpc.FieldUserID: "u-1"})}
	c := &GRPCClient{client: f}

	id, err := c.Register(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "u-1", id)
	require.Equal(t, "a@b.com", rpc.StringField(f.lastRegisterReq, rpc.FieldEmail))
	require.Equal(t, "pw", rpc.StringField(f.lastRegisterReq, rpc.FieldPassword))
}

func TestRegister_MapsError(t *testing.T) {
	f := &fakeRPC{registerErr: status.Error(codes.AlreadyExists, "email already registered")}
	c := &GRPCClient{client: f}

	_, err := c.Register(context.Background(), "a@b.com", "pw")
	require.EqualError(t, err, "email already registered")
}

func TestSignIn_StoresToken(t *testing.T) {
	f := &fakeRPC{signInResp: mustStruct(t, map[string]any{rpc.FieldUserID: "u-1", rpc.FieldAccessToken: "A"})}
	c := &GRPCClient{client: f}

	id, token, err := c.SignIn(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "u-1", id)
	require.Equal(t, "A", token)
	require.Equal(t, "A", c.token())
	require.Equal(t, "a@b.com", rpc.StringField(f.lastSignInReq, rpc.FieldEmail))
}

func TestSignIn_MapsError(t *testing.T) {
	f := &fakeRPC{signInErr: status.Error(codes.Unauthenticated, "invalid credentials")}
	c := &GRPCClient{client: f, accessToken: "old"}

	_, _, err := c.SignIn(context.Background(), "a@b.com", "bad")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Equal(t, "old", c.token())
}

func TestSignOut_SendsTokenAndClears(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{client: f, accessToken: "A"}

	require.NoError(t, c.SignOut(context.Background(), "A"))
	require.Equal(t, []string{"A"}, f.lastSignOutMD.Get(common.AccessTokenHeaderName))
	require.Empty(t, c.token())
}

func TestSignOut_OtherTokenKeepsStored(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{client: f, accessToken: "A"}

	require.NoError(t, c.SignOut(context.Background(), "B"))
	require.Equal(t, "A", c.token())
}

func TestSignOut_MapsError(t *testing.T) {
	f := &fakeRPC{signOutErr: status.Error(codes.Unavailable, "x")}
	c := &GRPCClient{client: f, accessToken: "A"}

	require.ErrorIs(t, c.SignOut(context.Background(), "A"), ErrUnavailable)
	require.Equal(t, "A", c.token())
}

/*************
 * SendPasswordReset / GetUserDocument tests
 *************/

func TestSendPasswordReset(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{client: f}

	require.NoError(t, c.SendPasswordReset(context.Background(), "a@b.com"))
	require.Equal(t, "a@b.com", rpc.StringField(f.lastResetReq, rpc.FieldEmail))

	f.resetErr = status.Error(codes.InvalidArgument, "The email address is badly formatted.")
	require.EqualError(t, c.SendPasswordReset(context.Background(), "x"), "The email address is badly formatted.")
}

func TestGetUserDocument(t *testing.T) {
	f := &fakeRPC{getDocResp: mustStruct(t, map[string]any{
		rpc.FieldDocument: map[string]any{"admin": true, "name": "Ann"},
	})}
	c := &GRPCClient{client: f}

	doc, err := c.GetUserDocument(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"admin": true, "name": "Ann"}, doc)
	require.Equal(t, common.UsersCollection, rpc.StringField(f.lastGetDocReq, rpc.FieldCollection))
	require.Equal(t, "u-1", rpc.StringField(f.lastGetDocReq, rpc.FieldDocumentID))
}

func TestGetUserDocument_EmptyResponse(t *testing.T) {
	f := &fakeRPC{getDocResp: &structpb.Struct{}}
	c := &GRPCClient{client: f}

	doc, err := c.GetUserDocument(context.Background(), "u-1")
	require.NoError(t, err)
	require.Empty(t, doc)
}

func TestGetUserDocument_NotFound(t *testing.T) {
	f := &fakeRPC{getDocErr: status.Error(codes.NotFound, "no document")}
	c := &GRPCClient{client: f}

	_, err := c.GetUserDocument(context.Background(), "u-1")
	require.ErrorIs(t, err, ErrNotFound)
}
