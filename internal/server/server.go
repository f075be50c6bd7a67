package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/numfront/internal/logging"
)

const (
	requestIDHeader = "X-Request-ID"

	// DefaultShutdownTimeout bounds how long in-flight requests may finish
	// after the context is cancelled.
	DefaultShutdownTimeout = 5 * time.Second

	// otherPath labels metrics for paths no handler is registered for.
	otherPath = "other"
)

// Server is an HTTP server with the shared middleware chain.
type Server struct {
	name            string
	addr            string
	mux             *http.ServeMux
	paths           map[string]struct{}
	metrics         *Metrics
	logger          logging.Logger
	security        SecurityConfig
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithSecurity replaces DefaultSecurityConfig.
func WithSecurity(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// WithShutdownTimeout replaces DefaultShutdownTimeout.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// New creates a server named name that will listen on addr. /metrics is
// registered on every server.
func New(name, addr string, logger logging.Logger, opts ...Option) *Server {
	s := &Server{
		name:            name,
		addr:            addr,
		mux:             http.NewServeMux(),
		paths:           make(map[string]struct{}),
		metrics:         NewMetrics(),
		logger:          logger,
		security:        DefaultSecurityConfig(),
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux.HandleFunc("/metrics", s.handleMetrics)
	s.paths["/metrics"] = struct{}{}
	return s
}

// Handle registers h for the exact path.
func (s *Server) Handle(path string, h http.Handler) {
	s.mux.Handle(path, h)
	s.paths[path] = struct{}{}
}

// HandleRoot registers h for "/" only; other unknown paths still 404.
func (s *Server) HandleRoot(h http.Handler) {
	s.mux.Handle("/{$}", h)
	s.paths["/"] = struct{}{}
}

// Handler returns the mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.requestIDMiddleware(SecurityMiddleware(s.security, s.metricsMiddleware(s.mux.ServeHTTP)))
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("%s: listen on %s: %w", s.name, s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. A clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			logging.String("server", s.name),
			logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s: %w", s.name, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down", logging.String("server", s.name))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: shutdown: %w", s.name, err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Debug("metrics: method not allowed", logging.String("method", r.Method))
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next(rec, r)
		s.metrics.ObserveRequest(s.pathLabel(r.URL.Path), rec.code(), time.Since(start))
	}
}

func (s *Server) pathLabel(path string) string {
	if _, ok := s.paths[path]; ok {
		return path
	}
	return otherPath
}

// requestIDMiddleware propagates or assigns X-Request-ID and logs each
// request once it completes.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			logging.String("server", s.name),
			logging.String("request_id", id),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.code()),
			logging.Duration("duration", time.Since(start)))
	})
}
