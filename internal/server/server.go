// Package server exposes the client's metrics and load state over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/bootload/internal/lifecycle"
	"github.com/agbru/bootload/internal/logging"
	"github.com/agbru/bootload/internal/metrics"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// StateFunc reports the load state of the current client.
type StateFunc func() lifecycle.State

// Server serves /metrics and /healthz.
type Server struct {
	addr     string
	recorder *metrics.Recorder
	state    StateFunc
	logger   logging.Logger
	security SecurityConfig

	httpServer *http.Server
	listener   net.Listener
	serveErr   chan error
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSecurityConfig overrides DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// New creates a server listening on addr once started. state may be nil,
// in which case /healthz always reports loading.
func New(addr string, recorder *metrics.Recorder, state StateFunc, opts ...Option) *Server {
	if state == nil {
		state = func() lifecycle.State { return lifecycle.Loading }
	}
	s := &Server{
		addr:     addr,
		recorder: recorder,
		state:    state,
		logger:   logging.NewNopLogger(),
		security: DefaultSecurityConfig(),
		serveErr: make(chan error, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	mux.HandleFunc("/healthz", s.wrap(s.handleHealth))
	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(h))
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.logger.Info("Metrics server listening", logging.String("addr", ln.Addr().String()))
	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.serveErr <- err
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	err := <-s.serveErr
	s.logger.Info("Metrics server stopped")
	return err
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.recorder.IncrementActiveRequests()
		defer s.recorder.DecrementActiveRequests()
		s.recorder.ObserveRequest(r.URL.Path)
		next(w, r)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Debug("Rejected metrics request", logging.String("method", r.Method))
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.recorder.WritePrometheus(w, r)
}

type healthResponse struct {
	State string `json:"state"`
}

// handleHealth reports 200 while loading or loaded and 503 once the load
// failed.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state := s.state()
	code := http.StatusOK
	if state == lifecycle.Failed {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(healthResponse{State: state.String()}); err != nil {
		s.logger.Error("Failed to write health response", err)
	}
}
