package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/context"

	"github.com/vulnwatch/image-scanner-api/pkg/etc"
)

type Server struct {
	cfg    etc.Metrics
	server *http.Server
}

func NewServer(cfg etc.Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Endpoint, promhttp.Handler())
	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:    cfg.Addr,
			Handler: mux,
		},
	}
}

func (s *Server) ListenAndServe() {
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Error", slog.String("err", err.Error()))
		}
		slog.Debug("Metrics server stopped listening for incoming connections")
	}()
}

func (s *Server) Shutdown(ctx context.Context) {
	slog.Debug("Metrics server shutdown started")
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Error while shutting down metrics server", slog.String("err", err.Error()))
	}
	slog.Debug("Metrics server shutdown completed")
}
