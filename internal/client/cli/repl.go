package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isAdmitted() bool
	println(args ...any)
	print(s string)
	SignIn(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	SignUp(ctx context.Context) error
	Admin(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
//	Login screen:
//	  - help           show available commands
//	  - signin         sign in with email and password
//	  - reset          send a password reset email
//	  - signup         create an account
//	  - admin          administrator entry point
//	  - exit | quit    leave the program
//
//	Signed in:
//	  - help, logout, exit | quit
//
// Errors returned by command handlers are ignored here; the handlers report
// them through the banner or the log.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		a.print(fmt.Sprintf("eclinic %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if a.isAdmitted() {
			switch cmd {
			case "help":
				a.println("Available commands: logout, exit")
			case "logout":
				_ = a.Logout(ctx)
			case "exit", "quit":
				a.println("Bye!")
				return
			default:
				a.println("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "help":
			a.println("Available commands: signin, reset, signup, admin, exit")
		case "signin", "login":
			_ = a.SignIn(ctx)
		case "reset":
			_ = a.ResetPassword(ctx)
		case "signup", "register":
			_ = a.SignUp(ctx)
		case "admin":
			_ = a.Admin(ctx)
		case "exit", "quit":
			a.println("Bye!")
			return
		default:
			a.println("Unknown command:", cmd)
		}
	}
}
