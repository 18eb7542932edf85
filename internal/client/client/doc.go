// Package client contains the eclinic CLI transport to the backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register, SignIn, SignOut, SendPasswordReset, GetUserDocument and Ping.
//  2. A concrete gRPC implementation (see GRPCClient) over the rpc package
//     wire contract. It injects the access token from the last successful
//     SignIn via an interceptor and maps gRPC status codes to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound. Any other status is
// returned as *RemoteError whose text is the server message, so it can be
// shown to the user as is.
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
