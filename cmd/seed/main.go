// Command seed creates a backend account and sets its admin flag, using the
// same configuration as the server (-m external to seed persistent storage).
//
//	seed -email=admin@clinic.test -password=secret1 -admin=true
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/eclinic/internal/flagx"
	"github.com/dmitrijs2005/eclinic/internal/logging"
	"github.com/dmitrijs2005/eclinic/internal/server"
	"github.com/dmitrijs2005/eclinic/internal/server/config"
)

func main() {
	var email, password string
	var admin bool

	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&password, "password", "", "account password")
	fs.BoolVar(&admin, "admin", false, "mark the account as administrator")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-email", "-password", "-admin"}))

	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -email=<email> -password=<password> [-admin=true]")
		os.Exit(2)
	}

	if err := run(email, password, admin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(email, password string, admin bool) error {
	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	userID, err := app.Seed(ctx, email, password, admin)
	if err != nil {
		return err
	}

	fmt.Printf("user %s (admin=%t)\n", userID, admin)
	return nil
}
