// Package cli provides the interactive eclinic command-line client.
//
// It wires configuration, the gRPC transport, the auth and document services,
// the notification banner and the login controller behind a small REPL.
//
// Login screen commands: signin, reset, signup, admin, help, exit.
// After admission: logout, help, exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
