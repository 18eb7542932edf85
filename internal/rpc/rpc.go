// Package rpc is the wire contract between the eclinic CLI and the development
// backend.
//
// Messages are protobuf well-known types: requests and most responses are
// structpb.Struct values keyed by the Field* constants, empty payloads are
// emptypb.Empty. ClinicClient and RegisterClinicServer play the role of
// generated stubs.
package rpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "eclinic.v1.Clinic"

const (
	MethodRegister          = "/" + ServiceName + "/Register"
	MethodSignIn            = "/" + ServiceName + "/SignIn"
	MethodSignOut           = "/" + ServiceName + "/SignOut"
	MethodSendPasswordReset = "/" + ServiceName + "/SendPasswordReset"
	MethodGetDocument       = "/" + ServiceName + "/GetDocument"
	MethodPing              = "/" + ServiceName + "/Ping"
)

// Field keys used in request and response structs.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldUserID      = "user_id"
	FieldAccessToken = "access_token"
	FieldCollection  = "collection"
	FieldDocumentID  = "id"
	FieldDocument    = "document"
	FieldStatus      = "status"
)

const StatusOK = "OK"

// NewStruct builds a request or response message from plain Go values.
func NewStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("rpc: build message: %w", err)
	}
	return s, nil
}

// StringField returns the string value stored under key, or "" when the key is
// absent or holds another kind.
func StringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return ""
	}
	return sv.StringValue
}

// StructField returns the nested struct stored under key, or nil.
func StructField(s *structpb.Struct, key string) *structpb.Struct {
	if s == nil {
		return nil
	}
	return s.GetFields()[key].GetStructValue()
}
