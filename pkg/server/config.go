package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/dropdown/internal/errors"
)

// Config holds configuration for the HTTP/WebSocket server and the
// sessions it creates.
type Config struct {
	// Address is the address to listen on (e.g., ":8080").
	// Default: ":8080".
	Address string

	// Timeouts

	// ReadTimeout is the maximum time to wait for a client frame. Pongs
	// extend it, so idle but healthy connections stay open.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15 seconds.
	ShutdownTimeout time.Duration

	// Limits

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 4KB.
	MaxMessageSize int64

	// MaxEventQueue is the size of each session's event buffer.
	// Default: 64.
	MaxEventQueue int

	// AllowedOrigins lists origins allowed to open a WebSocket. Empty means
	// same-origin only.
	AllowedOrigins []string

	// Title is the page title.
	// Default: "Dropdown".
	Title string

	// Styles are inline stylesheets added to the page head.
	Styles []string

	// Logger is the structured logger.
	// Default: slog.Default().
	Logger *slog.Logger

	// Registry receives the server's Prometheus collectors and backs
	// /metrics.
	// Default: a fresh prometheus.NewRegistry().
	Registry *prometheus.Registry

	// TracerName names the OpenTelemetry tracer.
	// Default: "dropdown".
	TracerName string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		MaxMessageSize:    4 * 1024,
		MaxEventQueue:     64,
		Title:             "Dropdown",
		TracerName:        "dropdown",
	}
}

// withDefaults fills zero fields from DefaultConfig. It never mutates c.
func (c *Config) withDefaults() *Config {
	def := DefaultConfig()
	if c == nil {
		def.Logger = slog.Default()
		def.Registry = prometheus.NewRegistry()
		return def
	}
	out := *c
	if out.Address == "" {
		out.Address = def.Address
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = def.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = def.WriteTimeout
	}
	if out.HeartbeatInterval <= 0 {
		out.HeartbeatInterval = def.HeartbeatInterval
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = def.ShutdownTimeout
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = def.MaxMessageSize
	}
	if out.MaxEventQueue <= 0 {
		out.MaxEventQueue = def.MaxEventQueue
	}
	if out.Title == "" {
		out.Title = def.Title
	}
	if out.TracerName == "" {
		out.TracerName = def.TracerName
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.Registry == nil {
		out.Registry = prometheus.NewRegistry()
	}
	return &out
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.HeartbeatInterval > 0 && c.ReadTimeout > 0 && c.HeartbeatInterval >= c.ReadTimeout {
		return errors.New(errors.ErrInvalidConfig).
			WithDetail(fmt.Sprintf("heartbeat interval %s must be shorter than read timeout %s",
				c.HeartbeatInterval, c.ReadTimeout)).
			WithSuggestion("lower server.heartbeat_interval or raise server.read_timeout")
	}
	for _, origin := range c.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New(errors.ErrInvalidConfig).
				WithDetail(fmt.Sprintf("allowed origin %q is not an absolute URL", origin)).
				WithSuggestion("use the form https://example.com")
		}
	}
	return nil
}

// checkOrigin returns the upgrader's origin policy. A nil result lets
// gorilla/websocket apply its same-origin check.
func (c *Config) checkOrigin() func(r *http.Request) bool {
	if len(c.AllowedOrigins) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		allowed[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
