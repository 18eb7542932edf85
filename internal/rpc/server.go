package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ClinicServer is the server side of the Clinic service.
type ClinicServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignOut(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	SendPasswordReset(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	GetDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// UnimplementedClinicServer can be embedded to satisfy ClinicServer.
type UnimplementedClinicServer struct{}

func (UnimplementedClinicServer) Register(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedClinicServer) SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SignIn not implemented")
}
func (UnimplementedClinicServer) SignOut(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SignOut not implemented")
}
func (UnimplementedClinicServer) SendPasswordReset(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SendPasswordReset not implemented")
}
func (UnimplementedClinicServer) GetDocument(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDocument not implemented")
}
func (UnimplementedClinicServer) Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(ClinicServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ClinicServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ClinicServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ClinicServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClinicServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, ClinicServer.Register)},
		{MethodName: "SignIn", Handler: unaryHandler(MethodSignIn, ClinicServer.SignIn)},
		{MethodName: "SignOut", Handler: unaryHandler(MethodSignOut, ClinicServer.SignOut)},
		{MethodName: "SendPasswordReset", Handler: unaryHandler(MethodSendPasswordReset, ClinicServer.SendPasswordReset)},
		{MethodName: "GetDocument", Handler: unaryHandler(MethodGetDocument, ClinicServer.GetDocument)},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, ClinicServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eclinic/v1/clinic",
}

func RegisterClinicServer(s grpc.ServiceRegistrar, srv ClinicServer) {
	s.RegisterService(&ClinicServiceDesc, srv)
}
