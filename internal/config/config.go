package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/dropdown/internal/errors"
	"github.com/vango-dev/dropdown/pkg/server"
)

const (
	// ConfigFileName is the config file looked up in the working directory
	// when no path is given.
	ConfigFileName = "dropdown"

	// EnvPrefix prefixes environment overrides, e.g. DROPDOWN_SERVER_ADDR.
	EnvPrefix = "DROPDOWN"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Dropdown DropdownConfig `mapstructure:"dropdown"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP and session settings.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	QueueSize         int           `mapstructure:"queue_size"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	Title             string        `mapstructure:"title"`
}

// DropdownConfig holds the demo dropdown's initial settings.
type DropdownConfig struct {
	Open      bool   `mapstructure:"open"`
	Hoverable bool   `mapstructure:"hoverable"`
	Class     string `mapstructure:"class"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":      "server.addr",
	"hoverable": "dropdown.hoverable",
	"open":      "dropdown.open",
	"log-level": "log.level",
}

func setDefaults(v *viper.Viper) {
	def := server.DefaultConfig()
	v.SetDefault("server.addr", def.Address)
	v.SetDefault("server.read_timeout", def.ReadTimeout)
	v.SetDefault("server.write_timeout", def.WriteTimeout)
	v.SetDefault("server.heartbeat_interval", def.HeartbeatInterval)
	v.SetDefault("server.shutdown_timeout", def.ShutdownTimeout)
	v.SetDefault("server.max_message_size", def.MaxMessageSize)
	v.SetDefault("server.queue_size", def.MaxEventQueue)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.title", def.Title)
	v.SetDefault("dropdown.open", false)
	v.SetDefault("dropdown.hoverable", false)
	v.SetDefault("dropdown.class", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from defaults, an optional file, DROPDOWN_*
// environment variables and flags, in increasing precedence.
//
// With path empty, ./dropdown.yaml is used if present. An explicit path
// that cannot be read is an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.New(errors.ErrInvalidConfig).Wrap(err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); path != "" || !notFound {
			return nil, errors.New(errors.ErrInvalidConfig).
				WithDetail(fmt.Sprintf("read config %s", v.ConfigFileUsed())).
				Wrap(err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.New(errors.ErrInvalidConfig).WithDetail("unmarshal config").Wrap(err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrInvalidConfig).
			WithDetail("server.addr is empty").
			WithSuggestion("set server.addr or pass --addr")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.ErrInvalidConfig).
			WithDetail(fmt.Sprintf("log.format %q", c.Log.Format)).
			WithSuggestion("use text or json")
	}
	return c.ServerConfig(nil).Validate()
}

// ServerConfig converts the server section. logger may be nil.
func (c *Config) ServerConfig(logger *slog.Logger) *server.Config {
	return &server.Config{
		Address:           c.Server.Addr,
		ReadTimeout:       c.Server.ReadTimeout,
		WriteTimeout:      c.Server.WriteTimeout,
		HeartbeatInterval: c.Server.HeartbeatInterval,
		ShutdownTimeout:   c.Server.ShutdownTimeout,
		MaxMessageSize:    c.Server.MaxMessageSize,
		MaxEventQueue:     c.Server.QueueSize,
		AllowedOrigins:    c.Server.AllowedOrigins,
		Title:             c.Server.Title,
		Logger:            logger,
	}
}

// NewLogger builds the structured logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.New(errors.ErrInvalidConfig).
			WithDetail(fmt.Sprintf("log.level %q", s)).
			WithSuggestion("use debug, info, warn or error")
	}
	return level, nil
}
