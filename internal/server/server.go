// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /health     liveness probe
//	GET  /languages  the compiled catalog as JSON
//	POST /render     body is the payload, ?target= selects the language,
//	                 ?compress= overrides the configured default
//
// The catalog and dispatch table are immutable, so requests render
// concurrently; each request renders into its own buffer and only a
// complete program is ever sent.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/logging"
	"github.com/conneroisu/codex/internal/render"
	"github.com/conneroisu/codex/internal/source"
)

// SourceProvider returns the source files inlined into every response.
type SourceProvider func() ([]source.File, error)

// Server handles HTTP server lifecycle and route registration
type Server struct {
	config   config.ServeConfig
	compress bool
	renderer *render.Renderer
	sources  SourceProvider
	logger   logging.Logger
	started  time.Time

	mux     *http.ServeMux
	chain   *Chain
	handler http.Handler

	// serverMutex protects httpServer, listener and isShutdown
	serverMutex sync.RWMutex
	httpServer  *http.Server
	listener    net.Listener
	isShutdown  bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		s.logger = logger.WithComponent("server")
	}
}

// WithSources sets the provider of inlined source files.
func WithSources(sources SourceProvider) Option {
	return func(s *Server) {
		s.sources = sources
	}
}

// WithCompress sets the default for requests without ?compress=.
func WithCompress(compress bool) Option {
	return func(s *Server) {
		s.compress = compress
	}
}

// New creates a server bound to cfg.Addr once started.
func New(cfg config.ServeConfig, renderer *render.Renderer, opts ...Option) *Server {
	s := &Server{
		config:   cfg,
		compress: true,
		renderer: renderer,
		sources:  func() ([]source.File, error) { return nil, nil },
		logger:   logging.NewDiscardLogger(),
		started:  time.Now(),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerRoutes()
	s.chain = NewChain(s.loggingMiddleware(), s.recoveryMiddleware())
	s.handler = s.chain.Apply(s.mux)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.HandleHealth)
	s.mux.HandleFunc("GET /languages", s.HandleLanguages)
	s.mux.HandleFunc("POST /render", s.HandleRender)
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and blocks until ctx is
// cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	s.serverMutex.Lock()
	if s.isShutdown {
		s.serverMutex.Unlock()
		return errors.NewInternalError("SERVER_SHUTDOWN", "server has been shut down", http.ErrServerClosed)
	}
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		s.serverMutex.Unlock()
		return errors.WrapIO(err, "SERVER_LISTEN", "unable to listen on "+s.config.Addr)
	}
	s.listener = listener
	server := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "Render service listening", "addr", listener.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- errors.WrapIO(err, "SERVER_ERROR", "server error")
		}
	}()

	select {
	case <-ctx.Done():
		// Use background context to avoid cancellation during shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the HTTP server. It is idempotent.
func (s *Server) Shutdown(ctx context.Context) error {
	s.serverMutex.Lock()
	defer s.serverMutex.Unlock()

	if s.isShutdown {
		return nil
	}
	s.isShutdown = true

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.WrapIO(err, "SERVER_SHUTDOWN", "server shutdown failed")
	}
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}

// IsShutdown returns whether the server has been shut down
func (s *Server) IsShutdown() bool {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()
	return s.isShutdown
}
