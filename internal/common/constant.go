// Package common contains constants, sentinel errors and small helpers shared
// by the login client and the development backend.
package common

// AccessTokenHeaderName is the gRPC metadata key carrying the session token.
const AccessTokenHeaderName = "access_token"

// UsersCollection is the document collection holding per-user records.
const UsersCollection = "users"

// AdminField is the boolean field of a users document that marks an admin.
const AdminField = "admin"
