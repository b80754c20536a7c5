package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config describes the top-level application configuration loaded from YAML and ENV.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Logging LoggingConfig `mapstructure:"logging"`
	Debug   DebugConfig   `mapstructure:"debug"`
}

// ServerConfig identifies the remote agent endpoint.
type ServerConfig struct {
	Host   string `mapstructure:"host"`   // phone IP address or hostname
	Port   int    `mapstructure:"port"`   // CLI server port
	Token  string `mapstructure:"token"`  // bearer token, treated as opaque, never logged
	Scheme string `mapstructure:"scheme"` // ws or wss
}

// ClientConfig holds tunables for the conversation and history clients.
type ClientConfig struct {
	HistoryTimeoutSeconds int `mapstructure:"history_timeout_seconds"` // per-request HTTP timeout
	TurnTimeoutSeconds    int `mapstructure:"turn_timeout_seconds"`    // single-message wait ceiling
	ToolPreviewChars      int `mapstructure:"tool_preview_chars"`      // tool output preview length
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// DebugConfig controls the optional local diagnostics listener.
type DebugConfig struct {
	Addr           string `mapstructure:"addr"` // empty disables the listener
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// Load reads configuration from the provided path, or from configs/config.yaml
// when present. A missing config file is not an error: the client can run from
// flags and environment alone. Environment variables override file values
// (prefix: PALMLINK_, dots replaced with underscores).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PALMLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults populates sensible defaults for optional fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8642)
	v.SetDefault("server.scheme", "ws")

	v.SetDefault("client.history_timeout_seconds", 10)
	v.SetDefault("client.turn_timeout_seconds", 120)
	v.SetDefault("client.tool_preview_chars", 300)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("debug.addr", "")
	v.SetDefault("debug.metrics_enabled", true)
}

// Validate performs basic sanity checks on configuration values. Host and
// token are validated separately at connect time so that commands which do
// not touch the network (version, doctor on a bare config) still run.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within (0,65535], got %d", c.Server.Port)
	}

	switch strings.ToLower(strings.TrimSpace(c.Server.Scheme)) {
	case "ws", "wss":
	default:
		return fmt.Errorf("server.scheme must be ws or wss, got %q", c.Server.Scheme)
	}

	if c.Client.HistoryTimeoutSeconds <= 0 {
		return errors.New("client.history_timeout_seconds must be > 0")
	}
	if c.Client.TurnTimeoutSeconds <= 0 {
		return errors.New("client.turn_timeout_seconds must be > 0")
	}
	if c.Client.ToolPreviewChars < 0 {
		return errors.New("client.tool_preview_chars must be >= 0")
	}

	return nil
}

// RequireEndpoint ensures the fields needed to reach the remote agent are set.
func (c *Config) RequireEndpoint() error {
	if strings.TrimSpace(c.Server.Host) == "" {
		return errors.New("host is required (--host or PALMLINK_SERVER_HOST)")
	}
	if strings.TrimSpace(c.Server.Token) == "" {
		return errors.New("token is required (--token or PALMLINK_SERVER_TOKEN)")
	}
	return nil
}

// BaseURL returns the http(s) endpoint for the history API.
func (c *Config) BaseURL() string {
	scheme := "http"
	if strings.EqualFold(strings.TrimSpace(c.Server.Scheme), "wss") {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Server.Host, c.Server.Port)
}

// SocketURL returns the ws(s) endpoint for the live conversation stream.
// The bearer token rides in the query string, as the server expects.
func (c *Config) SocketURL() string {
	return fmt.Sprintf("%s://%s:%d/ws?token=%s",
		strings.ToLower(strings.TrimSpace(c.Server.Scheme)), c.Server.Host, c.Server.Port, url.QueryEscape(c.Server.Token))
}
