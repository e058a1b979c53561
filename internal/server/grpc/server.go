// Package grpc serves the standard grpc.health.v1 service. Health follows a
// periodic storage probe: SERVING while the store answers pings, NOT_SERVING
// otherwise.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-check name of the vault API.
const ServiceName = "passvault.Vault"

const probeTimeout = 2 * time.Second

// Pinger is the storage liveness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeObserver is told the result of every probe.
type ProbeObserver interface {
	SetStoreUp(up bool)
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	store    Pinger
	observer ProbeObserver
	interval time.Duration
	health   *health.Server
}

func NewGRPCServer(a string, l logging.Logger, store Pinger, observer ProbeObserver, interval time.Duration) *GRPCServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		store:    store,
		observer: observer,
		interval: interval,
		health:   health.NewServer(),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestIDInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.probe(ctx)
	go s.probeLoop(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) probeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

// probe pings the store once and publishes the result.
func (s *GRPCServer) probe(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(pctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn(ctx, "storage probe failed", "error", err)
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	if s.observer != nil {
		s.observer.SetStoreUp(status == healthpb.HealthCheckResponse_SERVING)
	}
}
