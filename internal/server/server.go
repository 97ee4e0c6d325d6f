package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"igrelay/pkg/logger"
	"igrelay/pkg/relay"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

// StackConfig configures the middleware shared by both listeners
type StackConfig struct {
	AllowedOrigin    string
	// AllowCredentials adds Access-Control-Allow-Credentials to CORS responses
	AllowCredentials bool
	Logger           logger.Logger
}

// NewRouter constructs a chi router with the common middleware stack applied
func NewRouter(cfg StackConfig) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Recoverer(cfg.Logger))
	r.Use(CORS(cfg.AllowedOrigin, cfg.AllowCredentials))
	r.Get("/healthz", healthz)
	return r
}

// NewRelayRouter serves the normalizing relay endpoints and the diagnostic route
func NewRelayRouter(cfg StackConfig, svc RelayService, diagnostic relay.Diagnostic) http.Handler {
	r := NewRouter(cfg)
	h := &relayHandlers{svc: svc, diagnostic: diagnostic, logger: cfg.Logger}
	if h.logger == nil {
		h.logger = logger.GetLogger()
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/instagram-profile", h.profile)
		r.Get("/instagram-media", h.media)
		r.Get("/instagram-stories", h.stories)
		r.Get("/instagram-reels", h.reels)
		r.Get("/test", h.test)
	})
	return r
}

// NewProxyRouter serves the generic proxy endpoint
func NewProxyRouter(cfg StackConfig, forwarder Forwarder) http.Handler {
	r := NewRouter(cfg)
	h := &proxyHandler{forwarder: forwarder, logger: cfg.Logger}
	if h.logger == nil {
		h.logger = logger.GetLogger()
	}

	r.Get("/proxy", h.serve)
	return r
}

// NewDiagnostic reports secret presence without exposing the values
func NewDiagnostic(cookieSet, appIDSet bool) relay.Diagnostic {
	return relay.Diagnostic{
		Message:            msgBackendWorking,
		InstagramCookieSet: cookieSet,
		InstagramAppIDSet:  appIDSet,
	}
}

// Server wraps an http.Server with context-driven shutdown
type Server struct {
	name   string
	srv    *http.Server
	logger logger.Logger
}

// New creates a server listening on port
func New(name string, port int, handler http.Handler, readHeaderTimeout time.Duration, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Server{
		name: name,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: log,
	}
}

// Run listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoWithFields("server listening", map[string]interface{}{
			"server": s.name,
			"addr":   ln.Addr().String(),
		})
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.InfoWithFields("shutting down server", map[string]interface{}{"server": s.name})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down %s: %w", s.name, err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
