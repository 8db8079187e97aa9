package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dropdown/pkg/render"
	"github.com/vango-dev/dropdown/pkg/vdom"
)

// Server serves the page over HTTP and hosts one Session per WebSocket.
type Server struct {
	config   *Config
	page     PageFunc
	router   chi.Router
	upgrader websocket.Upgrader
	renderer *render.Renderer
	metrics  *Metrics
	tracer   trace.Tracer
	logger   *slog.Logger

	mu         sync.Mutex
	sessions   map[*Session]*wsConn
	httpServer *http.Server
}

// New creates a server for page. A nil config uses DefaultConfig.
func New(config *Config, page PageFunc) *Server {
	cfg := config.withDefaults()
	s := &Server{
		config:   cfg,
		page:     page,
		renderer: render.NewRenderer(render.RendererConfig{}),
		metrics:  NewMetrics(cfg.Registry),
		tracer:   newTracer(cfg.TracerName),
		logger:   cfg.Logger,
		sessions: make(map[*Session]*wsConn),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     cfg.checkOrigin(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/_ws", s.handleWebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// SessionCount returns the number of live WebSocket sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// handlePage server-renders a fresh page instance. The WebSocket session
// builds its own instance and replaces the markup on connect.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := NewSession(s.page, WithLogger(s.logger), WithMetrics(s.metrics), WithTracer(s.tracer))
	defer sess.Close()

	body, err := sess.Render()
	if err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = s.renderer.RenderPage(w, render.PageData{
		Title:        s.config.Title,
		Styles:       s.config.Styles,
		Body:         vdom.Raw(body),
		ClientScript: thinClient,
	})
	if err != nil {
		s.logger.Error("page write failed", "error", err)
	}
}

// handleWebSocket upgrades the request and runs a session until the
// connection closes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Warn("websocket upgrade failed", "error", err)
		s.metrics.recordWSError("upgrade")
		return
	}

	c := &wsConn{conn: conn, writeTimeout: s.config.WriteTimeout}
	sess := NewSession(s.page,
		WithSender(c.send),
		WithLogger(s.logger),
		WithMetrics(s.metrics),
		WithTracer(s.tracer),
		WithQueueSize(s.config.MaxEventQueue),
	)

	s.mu.Lock()
	s.sessions[sess] = c
	s.mu.Unlock()
	s.metrics.sessionOpened()
	sess.Logger().Info("session started", "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		s.metrics.sessionClosed()
		sess.Close()
		_ = conn.Close()
		sess.Logger().Info("session ended")
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go sess.EventLoop(ctx)
	go heartbeat(ctx, c, s.config.HeartbeatInterval, sess.Done())

	// The first render goes through the loop like any other.
	if err := sess.Dispatch(func() {}); err != nil {
		sess.Logger().Error("initial render failed", "error", err)
		return
	}

	s.readLoop(c, sess)
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.WriteTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	conns := make([]*wsConn, 0, len(s.sessions))
	for sess, c := range s.sessions {
		sess.Close()
		conns = append(conns, c)
	}
	srv := s.httpServer
	s.mu.Unlock()

	// Hijacked connections are not closed by http.Server.Shutdown.
	for _, c := range conns {
		c.closeWith(websocket.CloseGoingAway, "server shutdown")
	}

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}
