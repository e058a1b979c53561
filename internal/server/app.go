// Package server assembles and runs the passvault server: storage backend,
// crypto components, services, the HTTP API and the gRPC health endpoint.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/passgen"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/metrics"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passvault/internal/server/rest"
	"github.com/dmitrijs2005/passvault/internal/server/services"

	gs "github.com/dmitrijs2005/passvault/internal/server/grpc"
)

// logOutput receives the server's JSON log stream.
var logOutput io.Writer = os.Stdout

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	httpServer *rest.Server
	grpcServer *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	level, _ := c.SlogLevel()
	logger := logging.NewJSONLogger(logOutput, level)

	backend, _, err := repomanager.ParseDSN(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	repos, err := repomanager.NewRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info(ctx, "storage ready", "backend", string(backend))

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		SecretKey: []byte(c.SecretKey),
		Issuer:    c.TokenIssuer,
		Audience:  c.TokenAudience,
		Validity:  c.AccessTokenValidityDuration,
	})
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("token service error: %w", err)
	}

	protector, err := cryptox.NewProtector([]byte(c.ProtectionKey), cryptox.SecretMaskingPurpose)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("protector error: %w", err)
	}

	m := metrics.New()
	hasher := cryptox.NewHasher(c.HashIterations)

	authService := services.NewAuthService(repos.Accounts(), hasher, tokens, logger.With("module", "auth"), m)
	vaultService := services.NewVaultService(repos.Secrets(), protector, passgen.NewGenerator(), logger.With("module", "vault"))

	return &App{
		config:     c,
		logger:     logger,
		repos:      repos,
		httpServer: rest.NewServer(c.EndpointAddrHTTP, logger, authService, vaultService, tokens, m, m.Handler()),
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, repos, m, c.HealthCheckInterval),
	}, nil
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

// Run starts both endpoints and blocks until a signal arrives or either
// endpoint fails. Storage is closed on the way out.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()
	go func() {
		defer wg.Done()
		if err := app.grpcServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "storage close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
