// Package grpc exposes the identity and document services over the Clinic
// gRPC service described in internal/rpc.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/eclinic/internal/logging"
	"github.com/dmitrijs2005/eclinic/internal/rpc"
	"github.com/dmitrijs2005/eclinic/internal/server/auth"
	"github.com/dmitrijs2005/eclinic/internal/server/models"
	"google.golang.org/grpc"
)

// IdentityService is the subset of services.IdentityService the handlers use.
type IdentityService interface {
	Register(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (models.Session, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
	SendPasswordReset(ctx context.Context, email string) error
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

type DocumentService interface {
	Get(ctx context.Context, collection, id string) (map[string]any, error)
}

type GRPCServer struct {
	rpc.UnimplementedClinicServer
	address   string
	identity  IdentityService
	documents DocumentService
	logger    logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, is IdentityService, ds DocumentService) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		identity:  is,
		documents: ds,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterClinicServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
