// Package server initializes and runs the notesafe server. It wires the
// token verifier, user resolver, key derivation engine and note cipher
// behind the HTTP authorization gate, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/notesafe/notesafe/internal/common"
	"github.com/notesafe/notesafe/internal/keyring"
	"github.com/notesafe/notesafe/internal/logging"
	"github.com/notesafe/notesafe/internal/server/attachments"
	"github.com/notesafe/notesafe/internal/server/auth"
	"github.com/notesafe/notesafe/internal/server/config"
	"github.com/notesafe/notesafe/internal/server/httpapi"
	"github.com/notesafe/notesafe/internal/server/notes"
	"github.com/notesafe/notesafe/internal/server/shared/db"
	"github.com/notesafe/notesafe/internal/server/users"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	// an empty root secret must stop the process here, before any
	// connection is accepted
	secret := []byte(cfg.RootSecret)
	kr, err := keyring.New(secret)
	if err != nil {
		return nil, fmt.Errorf("keyring init error: %w", err)
	}
	common.WipeByteArray(secret)

	bundle, err := os.ReadFile(cfg.SigningKeysFile)
	if err != nil {
		return nil, fmt.Errorf("reading signing keys: %w", err)
	}
	keys, err := auth.NewStaticKeyResolverFromPEM(bundle)
	if err != nil {
		return nil, fmt.Errorf("loading signing keys: %w", err)
	}
	verifier := auth.NewVerifier(cfg.Issuer, cfg.Audience, cfg.ClockSkewLeeway, keys)

	rm, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(rm.Users())
	ns := notes.NewService(rm.Notes(), logger)
	as := attachments.NewService(rm.Attachments(), rm.Notes(), cfg)

	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, logger, verifier, us, kr, ns, as)

	return &App{config: cfg, logger: logger, httpServer: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
