// Package server exposes the Car demo over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-shapes/pkg/site"
)

const (
	defaultAddr              = ":8080"
	defaultShutdownGrace     = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
)

// Option customises the server.
type Option func(*Server)

// WithAddr sets the listen address used by Run.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr = strings.TrimSpace(addr); addr != "" {
			s.addr = addr
		}
	}
}

// WithShutdownGrace sets how long in-flight requests may run after the
// server context is cancelled.
func WithShutdownGrace(grace time.Duration) Option {
	return func(s *Server) {
		if grace > 0 {
			s.grace = grace
		}
	}
}

// WithReadHeaderTimeout bounds the time spent reading request headers.
func WithReadHeaderTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.readHeaderTimeout = timeout
		}
	}
}

// WithLogger injects a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGatherer exposes the gatherer's metrics on /metrics.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// Server serves rendered shapes. Build it once the site is fully registered.
type Server struct {
	site              *site.Site
	logger            *zap.Logger
	gatherer          prometheus.Gatherer
	addr              string
	grace             time.Duration
	readHeaderTimeout time.Duration
	handler           http.Handler
}

// New constructs a Server for the given site.
func New(st *site.Site, options ...Option) (*Server, error) {
	if st == nil {
		return nil, errors.New("server: site is required")
	}
	s := &Server{
		site:              st,
		logger:            zap.NewNop(),
		addr:              defaultAddr,
		grace:             defaultShutdownGrace,
		readHeaderTimeout: defaultReadHeaderTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return requestID(accessLog(s.logger, mux))
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests the configured grace period.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.readHeaderTimeout,
		ErrorLog:          zap.NewStdLog(s.logger.Named("http")),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
		defer cancel()

		s.logger.Info("shutting down", zap.Duration("grace", s.grace))
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
