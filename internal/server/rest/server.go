// Package rest is the HTTP boundary: it decodes requests, resolves the
// caller from a bearer token and maps service outcomes to status codes.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/passgen"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/services"
	"github.com/gorilla/mux"
)

type AuthService interface {
	Register(ctx context.Context, username, password string, requireSecondaryAuth bool) (*services.AccountInfo, error)
	Login(ctx context.Context, username, password string, confirmed bool) (*services.LoginResult, error)
}

type VaultService interface {
	List(ctx context.Context, ownerID string) ([]*models.Secret, error)
	Create(ctx context.Context, ownerID string, in services.CreateSecretInput) (*models.Secret, error)
	Delete(ctx context.Context, ownerID, id string) error
	Generate(opts passgen.Options) (string, error)
}

// TokenValidator resolves a bearer token to an account id.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// RequestObserver receives per-request measurements.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

const shutdownTimeout = 5 * time.Second

type Server struct {
	address        string
	auth           AuthService
	vault          VaultService
	tokens         TokenValidator
	metrics        RequestObserver
	metricsHandler http.Handler
	logger         logging.Logger
	router         *mux.Router
}

// NewServer wires routes. metricsHandler may be nil, in which case /metrics
// is not served.
func NewServer(address string, l logging.Logger, auth AuthService, vault VaultService, tokens TokenValidator, metrics RequestObserver, metricsHandler http.Handler) *Server {
	s := &Server{
		address:        address,
		auth:           auth,
		vault:          vault,
		tokens:         tokens,
		metrics:        metrics,
		metricsHandler: metricsHandler,
		logger:         l.With("module", "http_server"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
