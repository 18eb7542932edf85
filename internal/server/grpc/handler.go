package grpc

import (
	"context"

	"github.com/dmitrijs2005/eclinic/internal/common"
	"github.com/dmitrijs2005/eclinic/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, op+" failed", "error", err)
	}
	return st
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email := rpc.StringField(req, rpc.FieldEmail)

	userID, err := s.identity.Register(ctx, email, rpc.StringField(req, rpc.FieldPassword))
	if err != nil {
		return nil, s.fail(ctx, "register", err)
	}

	return rpc.NewStruct(map[string]any{rpc.FieldUserID: userID})
}

func (s *GRPCServer) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.identity.SignIn(ctx, rpc.StringField(req, rpc.FieldEmail), rpc.StringField(req, rpc.FieldPassword))
	if err != nil {
		return nil, s.fail(ctx, "sign in", err)
	}

	return rpc.NewStruct(map[string]any{
		rpc.FieldUserID:      session.UserID,
		rpc.FieldAccessToken: session.AccessToken,
	})
}

func (s *GRPCServer) SignOut(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	if err := s.identity.SignOut(ctx, claims); err != nil {
		return nil, s.fail(ctx, "sign out", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) SendPasswordReset(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if err := s.identity.SendPasswordReset(ctx, rpc.StringField(req, rpc.FieldEmail)); err != nil {
		return nil, s.fail(ctx, "send password reset", err)
	}
	return &emptypb.Empty{}, nil
}

// GetDocument returns {document: {...}}. Documents in the users collection
// are readable only by their owner.
func (s *GRPCServer) GetDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	collection := rpc.StringField(req, rpc.FieldCollection)
	id := rpc.StringField(req, rpc.FieldDocumentID)

	if collection == common.UsersCollection && id != claims.UserID {
		return nil, s.fail(ctx, "get document", common.ErrorForbidden)
	}

	doc, err := s.documents.Get(ctx, collection, id)
	if err != nil {
		return nil, s.fail(ctx, "get document", err)
	}

	return rpc.NewStruct(map[string]any{rpc.FieldDocument: doc})
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return rpc.NewStruct(map[string]any{rpc.FieldStatus: rpc.StatusOK})
}
