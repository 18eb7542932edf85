package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/eclinic/internal/common"
	"github.com/dmitrijs2005/eclinic/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      rpc.ClinicClient

	mu          sync.RWMutex
	accessToken string
}

// withAccessToken puts token into the outgoing metadata unless the caller
// already set one.
func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	if len(md.Get(common.AccessTokenHeaderName)) > 0 || token == "" {
		return ctx
	}
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
}

func NewClinicClient(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewClinicClient(conn)
	return nil
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := rpc.NewStruct(map[string]any{rpc.FieldEmail: email, rpc.FieldPassword: password})
	if err != nil {
		return "", err
	}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}

	return rpc.StringField(resp, rpc.FieldUserID), nil
}

func (s *GRPCClient) SignIn(ctx context.Context, email, password string) (string, string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := rpc.NewStruct(map[string]any{rpc.FieldEmail: email, rpc.FieldPassword: password})
	if err != nil {
		return "", "", err
	}

	resp, err := s.client.SignIn(ctx, req)
	if err != nil {
		return "", "", s.mapError(err)
	}

	token := rpc.StringField(resp, rpc.FieldAccessToken)
	s.setToken(token)

	return rpc.StringField(resp, rpc.FieldUserID), token, nil
}

// SignOut revokes accessToken on the server. The stored token is dropped when
// it is the one being revoked.
func (s *GRPCClient) SignOut(ctx context.Context, accessToken string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ctx = withAccessToken(ctx, accessToken)
	if _, err := s.client.SignOut(ctx, &emptypb.Empty{}); err != nil {
		return s.mapError(err)
	}

	s.mu.Lock()
	if s.accessToken == accessToken {
		s.accessToken = ""
	}
	s.mu.Unlock()

	return nil
}

func (s *GRPCClient) SendPasswordReset(ctx context.Context, email string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := rpc.NewStruct(map[string]any{rpc.FieldEmail: email})
	if err != nil {
		return err
	}

	if _, err := s.client.SendPasswordReset(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

// GetUserDocument reads the user's document from the users collection.
func (s *GRPCClient) GetUserDocument(ctx context.Context, userID string) (map[string]any, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := rpc.NewStruct(map[string]any{
		rpc.FieldCollection: common.UsersCollection,
		rpc.FieldDocumentID: userID,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.GetDocument(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	doc := rpc.StructField(resp, rpc.FieldDocument)
	if doc == nil {
		return map[string]any{}, nil
	}
	return doc.AsMap(), nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	if rpc.StringField(resp, rpc.FieldStatus) != rpc.StatusOK {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	default:
		return &RemoteError{Code: st.Code(), Message: st.Message()}
	}
}
