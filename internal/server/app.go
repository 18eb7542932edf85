// Package server wires the development backend: storage selected by
// StorageMode, the identity and document services, and the gRPC and HTTP
// servers that expose them.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/eclinic/internal/logging"
	"github.com/dmitrijs2005/eclinic/internal/server/config"
	gs "github.com/dmitrijs2005/eclinic/internal/server/grpc"
	"github.com/dmitrijs2005/eclinic/internal/server/httpapi"
	"github.com/dmitrijs2005/eclinic/internal/server/mail"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/documents"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/users"
	"github.com/dmitrijs2005/eclinic/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	identity  *services.IdentityService
	documents *services.DocumentService
	closers   []func() error
}

type stores struct {
	users     services.UserStore
	documents documents.Repository
	tokens    tokens.Repository
	closers   []func() error
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	st, err := newStores(ctx, c)
	if err != nil {
		return nil, err
	}

	mailer, err := newMailer(c, logger)
	if err != nil {
		closeAll(st.closers)
		return nil, err
	}

	is := services.NewIdentityService(st.users, st.documents, st.tokens, mailer, logger, c)
	ds := services.NewDocumentService(st.documents)

	return &App{config: c, logger: logger, identity: is, documents: ds, closers: st.closers}, nil
}

func newStores(ctx context.Context, c *config.Config) (*stores, error) {
	switch c.StorageMode {
	case config.StorageMemory:
		return &stores{
			users:     services.NewMemoryUserStore(users.NewMemoryRepository()),
			documents: documents.NewMemoryRepository(),
			tokens:    tokens.NewMemoryRepository(),
		}, nil
	case config.StorageExternal:
		return newExternalStores(ctx, c)
	default:
		return nil, fmt.Errorf("unknown storage mode %q", c.StorageMode)
	}
}

func newExternalStores(ctx context.Context, c *config.Config) (*stores, error) {
	st := &stores{}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	st.closers = append(st.closers, db.Close)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		closeAll(st.closers)
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	st.users = services.NewSQLUserStore(db, rm)

	st.documents, err = documents.NewS3RepositoryFromSettings(ctx, documents.S3Settings{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
	if err != nil {
		closeAll(st.closers)
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	st.closers = append(st.closers, rdb.Close)
	if err := rdb.Ping(ctx).Err(); err != nil {
		closeAll(st.closers)
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	st.tokens = tokens.NewRedisRepository(rdb, "")

	return st, nil
}

func newMailer(c *config.Config, logger logging.Logger) (mail.Mailer, error) {
	switch c.MailProvider {
	case config.MailLog, "":
		return mail.NewLogMailer(logger), nil
	case config.MailResend:
		return mail.NewResendMailer(c.ResendAPIKey, c.MailFrom)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", c.MailProvider)
	}
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases database and redis connections.
func (app *App) Close() error {
	return closeAll(app.closers)
}

// Seed creates the account, or reuses it when the password matches, and
// sets its admin flag. It returns the user id.
func (app *App) Seed(ctx context.Context, email, password string, admin bool) (string, error) {
	userID, err := app.identity.Register(ctx, email, password)
	if errors.Is(err, services.ErrEmailInUse) {
		session, signInErr := app.identity.SignIn(ctx, email, password)
		if signInErr != nil {
			return "", fmt.Errorf("existing account: %w", signInErr)
		}
		userID, err = session.UserID, nil
	}
	if err != nil {
		return "", err
	}

	if err := app.documents.SetAdmin(ctx, userID, admin); err != nil {
		return "", err
	}
	return userID, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.identity, app.documents)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.identity, app.logger)
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves gRPC and HTTP until ctx is cancelled, a signal arrives or one
// of the servers fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageMode)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "close", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
