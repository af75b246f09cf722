package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/gorilla/websocket"

	"lifelayer/relay/pkg/config"
	"lifelayer/relay/pkg/providerfactory"
	"lifelayer/relay/pkg/relay"
	"lifelayer/relay/pkg/server/middleware"
	"lifelayer/relay/pkg/telemetry/metrics"
)

// Server is the relay's HTTP server. It owns the listener; the session
// hub, dispatcher, and key store are injected so tests can drive them
// directly.
type Server struct {
	config     *config.Config
	hub        *relay.Hub
	dispatcher *relay.Dispatcher
	keys       *providerfactory.KeyStore
	collector  *metrics.Collector
	upgrader   websocket.Upgrader

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.Mutex
	isRunning    bool
}

// NewServer creates the relay server.
func NewServer(cfg *config.Config, hub *relay.Hub, dispatcher *relay.Dispatcher, keys *providerfactory.KeyStore, collector *metrics.Collector) *Server {
	s := &Server{
		config:     cfg,
		hub:        hub,
		dispatcher: dispatcher,
		keys:       keys,
		collector:  collector,
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	return s
}

// Start starts the HTTP server and blocks until shutdown, triggered by
// context cancellation, SIGINT/SIGTERM, or a listener error.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.Routes(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting relay server",
			"address", s.config.Server.ListenAddress,
			"service", s.config.Server.ServiceName,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the server. Live WebSocket sessions hold
// hijacked connections that http.Server.Shutdown will not close, so the
// hub closes them explicitly first.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String(),
			"active_sessions", s.hub.Len(),
		)

		s.hub.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("relay server stopped")
	})

	return shutdownErr
}

// Routes builds the HTTP handler with the full middleware chain.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleStatus)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/configure", s.handleConfigure)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", s.collector.Handler())

	var handler http.Handler = mux

	handler = middleware.CORS(s.corsConfig())(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// checkOrigin gates WebSocket upgrades. Non-browser clients send no
// Origin header and are always admitted. Browser clients pass only if
// CORS is enabled and their origin is allowlisted, or if the request is
// same-origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if s.config.CORS.Enabled {
		for _, allowed := range s.config.CORS.AllowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (s *Server) corsConfig() middleware.CORSConfig {
	return middleware.CORSConfig{
		Enabled:        s.config.CORS.Enabled,
		AllowedOrigins: s.config.CORS.AllowedOrigins,
		AllowedMethods: s.config.CORS.AllowedMethods,
		AllowedHeaders: s.config.CORS.AllowedHeaders,
		MaxAge:         s.config.CORS.MaxAge,
	}
}
