package observability

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"printts/internal/core/errors"
)

// Server exposes /metrics while printts runs in watch mode.
type Server struct {
	addr     string
	metrics  *Metrics
	server   *http.Server
	listener net.Listener
}

func NewServer(addr string, metrics *Metrics) *Server {
	return &Server{addr: addr, metrics: metrics}
}

// Start binds addr and serves in the background until Stop.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "metrics server listen"), errors.CtxKey, s.addr)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("metrics server starting", "addr", ln.Addr().String())

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	return nil
}

// Addr is the bound address once started, else the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
