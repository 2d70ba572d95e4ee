// Package inspect exposes a small HTTP surface over the automation
// engine: the finalized execution plans of registered types and the
// group-visibility profile. It is a debugging aid in the spirit of an
// editor inspector panel, intended for development builds.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/objkit/autobind"
	"github.com/objkit/autobind/groups"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger autobind.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithProfile attaches a group-visibility profile, enabling the /groups
// endpoints.
func WithProfile(profile *groups.Profile) Option {
	return func(s *Server) { s.profile = profile }
}

// Server serves automation plans and group state over HTTP.
type Server struct {
	addr    string
	logger  autobind.Logger
	profile *groups.Profile
	router  *chi.Mux
	server  *http.Server

	mu    sync.RWMutex
	plans map[string]map[autobind.Phase][]autobind.MemberDescriptor
}

// NewServer creates a server listening on addr once started.
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:  addr,
		plans: make(map[string]map[autobind.Phase][]autobind.MemberDescriptor),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = chi.NewRouter()
	s.routes()
	return s
}

// RegisterTarget computes and publishes the execution plan of an
// exemplar instance under the given name. Classification diagnostics
// are routed to the server's logger.
func (s *Server) RegisterTarget(name string, exemplar any) error {
	var sink autobind.DiagnosticSink
	if s.logger != nil {
		sink = autobind.NewLoggerSink(s.logger)
	}

	plan, err := autobind.Plan(exemplar, sink)
	if err != nil {
		return fmt.Errorf("failed to plan %s: %w", name, err)
	}

	s.mu.Lock()
	s.plans[name] = plan
	s.mu.Unlock()
	return nil
}

// Handler returns the route tree, usable directly in tests or when
// mounting into a larger router.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins serving. Non-blocking; the listener runs until Stop.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if s.logger != nil {
				s.logger.Error("inspect server failed", "addr", s.addr, "error", err)
			}
		}
	}()

	if s.logger != nil {
		s.logger.Info("inspect server started", "addr", s.addr)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("inspect server shutdown: %w", err)
	}
	return nil
}
