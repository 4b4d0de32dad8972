// Package config loads the server configuration from defaults, an optional
// YAML file, the environment and command-line overrides, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Transport names accepted by ServerConfig.Transport.
const (
	TransportStdio     = "stdio"
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// Log formats accepted by ServerConfig.LogFormat.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// EnvConfigFile names the YAML file when no --config flag is given.
const EnvConfigFile = "ASUS_MCP_CONFIG"

// Config is the complete server configuration.
type Config struct {
	Router    RouterConfig    `yaml:"router" envPrefix:"ASUS_ROUTER_"`
	Server    ServerConfig    `yaml:"server" envPrefix:"ASUS_MCP_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"ASUS_MCP_"`
}

// RouterConfig addresses and authenticates against the router.
type RouterConfig struct {
	Host           string        `yaml:"host" env:"HOST"`
	Port           int           `yaml:"port" env:"PORT"`
	UseHTTPS       bool          `yaml:"use_https" env:"USE_HTTPS"`
	Username       string        `yaml:"username" env:"USERNAME"`
	Password       string        `yaml:"password" env:"PASSWORD"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"CONNECT_TIMEOUT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
}

// ServerConfig controls the JSON-RPC side.
type ServerConfig struct {
	Transport       string        `yaml:"transport" env:"TRANSPORT"`
	Addr            string        `yaml:"addr" env:"ADDR"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat       string        `yaml:"log_format" env:"LOG_FORMAT"`
	RateLimit       int           `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst       int           `yaml:"rate_burst" env:"RATE_BURST"`
	MaxRequestBytes int64         `yaml:"max_request_bytes" env:"MAX_REQUEST_BYTES"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// TelemetryConfig enables OTLP trace export when OTLPEndpoint is set.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_ENDPOINT"`
	ServiceName  string `yaml:"service_name" env:"SERVICE_NAME"`
}

// Overrides are the command-line values. Empty fields leave the loaded
// value untouched.
type Overrides struct {
	ConfigFile string
	Transport  string
	Addr       string
	LogLevel   string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Router: RouterConfig{
			Host:           "192.168.1.1",
			Port:           80,
			Username:       "admin",
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    10 * time.Second,
		},
		Server: ServerConfig{
			Transport:       TransportStdio,
			Addr:            "127.0.0.1:8765",
			LogLevel:        "info",
			LogFormat:       LogFormatAuto,
			RateBurst:       10,
			MaxRequestBytes: 1 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "asus-router-mcp",
		},
	}
}

// Load layers the YAML file, environ and o over Default and validates the
// result. environ is passed explicitly; use Environ for the process
// environment.
func Load(environ map[string]string, o Overrides) (Config, error) {
	if environ == nil {
		// env falls back to os.Environ for a nil map.
		environ = map[string]string{}
	}
	cfg := Default()

	file := o.ConfigFile
	if file == "" {
		file = environ[EnvConfigFile]
	}
	if file != "" {
		if err := loadFile(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if o.Transport != "" {
		cfg.Server.Transport = o.Transport
	}
	if o.Addr != "" {
		cfg.Server.Addr = o.Addr
	}
	if o.LogLevel != "" {
		cfg.Server.LogLevel = o.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	return env.ToMap(os.Environ())
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	r := c.Router
	if strings.TrimSpace(r.Host) == "" {
		errs = append(errs, errors.New("router host is required"))
	}
	if r.Password == "" {
		errs = append(errs, errors.New("router password is required (ASUS_ROUTER_PASSWORD)"))
	}
	if r.Port < 1 || r.Port > 65535 {
		errs = append(errs, fmt.Errorf("router port %d out of range 1..65535", r.Port))
	}
	if r.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("connect timeout must be positive, got %s", r.ConnectTimeout))
	}
	if r.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("read timeout must be positive, got %s", r.ReadTimeout))
	}

	s := c.Server
	switch s.Transport {
	case TransportStdio, TransportHTTP, TransportWebSocket:
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q (want stdio, http or websocket)", s.Transport))
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch s.LogFormat {
	case LogFormatAuto, LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", s.LogFormat))
	}
	if s.RateLimit < 0 || s.RateBurst < 0 {
		errs = append(errs, errors.New("rate limit and burst must not be negative"))
	}
	if s.MaxRequestBytes < 0 {
		errs = append(errs, errors.New("max request bytes must not be negative"))
	}

	return errors.Join(errs...)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// BaseURL returns the router management URL, e.g. http://192.168.1.1:80.
func (r RouterConfig) BaseURL() string {
	scheme := "http"
	if r.UseHTTPS {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: hostPort(r.Host, r.Port)}
	return u.String()
}

func hostPort(host string, port int) string {
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		host = "[" + host + "]"
	}
	return host + ":" + strconv.Itoa(port)
}
