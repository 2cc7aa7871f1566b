// Package server hosts the audit ops surface: trail readback, health,
// and metrics. Services that embed the engine mount their own routes on
// the same router.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
)

type Config struct {
	EnableHTTP       bool          `envconfig:"SERVER_ENABLE_HTTP" default:"true"`
	EnableGRPC       bool          `envconfig:"SERVER_ENABLE_GRPC" default:"false"`
	HTTPPort         string        `envconfig:"SERVER_HTTP_PORT" default:"8080"`
	GRPCPort         string        `envconfig:"SERVER_GRPC_PORT" default:"9090"`
	HTTPReadTimeout  time.Duration `envconfig:"SERVER_HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout time.Duration `envconfig:"SERVER_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout  time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type Server struct {
	cfg     Config
	logger  *slog.Logger
	router  *chi.Mux
	grpcSrv *grpc.Server
	httpSrv *http.Server
}

func New(cfg Config, logger *slog.Logger, router *chi.Mux, grpcSrv *grpc.Server) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		router:  router,
		grpcSrv: grpcSrv,
	}
}

// Start runs the enabled listeners until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 2)

	if s.cfg.EnableHTTP {
		s.httpSrv = &http.Server{
			Addr:              ":" + s.cfg.HTTPPort,
			Handler:           s.router,
			ReadTimeout:       s.cfg.HTTPReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      s.cfg.HTTPWriteTimeout,
			IdleTimeout:       120 * time.Second,
		}

		go func() {
			s.logger.Info("HTTP server starting", "port", s.cfg.HTTPPort)
			if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("http server failed: %w", err)
			}
		}()
	}

	if s.cfg.EnableGRPC && s.grpcSrv != nil {
		go func() {
			s.logger.Info("gRPC server starting", "port", s.cfg.GRPCPort)
			lis, err := net.Listen("tcp", ":"+s.cfg.GRPCPort)
			if err != nil {
				errChan <- fmt.Errorf("failed to listen grpc: %w", err)
				return
			}
			if err := s.grpcSrv.Serve(lis); err != nil {
				errChan <- fmt.Errorf("grpc server failed: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down servers...")
		return s.shutdown()
	case err := <-errChan:
		return err
	}
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP shutdown error", "error", err)
		}
	}

	if s.grpcSrv != nil {
		s.grpcSrv.GracefulStop()
	}

	return nil
}
