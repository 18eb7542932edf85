package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/eclinic/internal/client/client"
	"github.com/dmitrijs2005/eclinic/internal/client/config"
	"github.com/dmitrijs2005/eclinic/internal/client/login"
	"github.com/dmitrijs2005/eclinic/internal/client/notify"
	"github.com/dmitrijs2005/eclinic/internal/client/services"
	"github.com/dmitrijs2005/eclinic/internal/logging"
)

type Screen string

const (
	ScreenLogin  Screen = "login"
	ScreenUser   Screen = "user"
	ScreenSignUp Screen = "signup"
	ScreenAdmin  Screen = "admin"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService services.AuthService
	notifier    *notify.Notifier
	controller  *login.Controller
	reader      *bufio.Reader

	outMu sync.Mutex
	out   io.Writer

	screen    Screen
	session   *login.Session
	userEmail string

	unsubscribe func()
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	apiClient, err := client.NewClinicClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient)
	ds := services.NewDocumentService(apiClient)

	return newApp(c, logger, as, ds, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, as services.AuthService, authz login.AuthorizationStore, in io.Reader, out io.Writer) *App {
	a := &App{
		config:      c,
		logger:      logger.With("module", "cli"),
		authService: as,
		notifier:    notify.New(c.NotificationTTL),
		reader:      bufio.NewReader(in),
		out:         out,
		screen:      ScreenLogin,
	}

	a.controller = login.NewController(as, authz, a.notifier, login.Callbacks{
		OnAdmitted:        a.onAdmitted,
		OnSignUpRequested: func() { a.screen = ScreenSignUp },
		OnAdminRequested:  func() { a.screen = ScreenAdmin },
	}, logger)
	a.unsubscribe = a.notifier.Subscribe(a.renderNotification)

	return a
}

// Run shows the login screen and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	if err := a.authService.Ping(ctx); err != nil {
		a.logger.Warn(ctx, "server is not reachable", "address", a.config.ServerEndpointAddr, "error", err)
	}

	a.println("eclinic CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close(ctx context.Context) {
	a.unsubscribe()
	a.notifier.Close()
	if err := a.authService.Close(ctx); err != nil {
		a.logger.Error(ctx, "close client", "error", err)
	}
}

func (a *App) onAdmitted(s login.Session) {
	a.session = &s
	a.screen = ScreenUser
}

func (a *App) isAdmitted() bool {
	return a.session != nil
}

func (a *App) getStatus() string {
	if a.userEmail != "" {
		return fmt.Sprintf("(%s)", a.userEmail)
	}
	return ""
}

// renderNotification prints the banner. It runs on the notifier's goroutine
// when a message expires.
func (a *App) renderNotification(n notify.Notification) {
	switch n.Kind {
	case notify.KindError:
		a.println("[x] " + n.Message)
	case notify.KindSuccess:
		a.println("[ok] " + n.Message)
	default:
		a.println()
	}
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) print(s string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprint(a.out, s)
}
