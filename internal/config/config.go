package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"gopkg.in/yaml.v3"
)

// Default configuration values
const (
	DefaultAddr         = ":4000"
	DefaultTickInterval = 5 * time.Second
	DefaultOrigin       = "http://localhost:3000"
	DefaultSendBuffer   = 256
	DefaultNATSSubject  = "matchmaker.rooms"
	DefaultServerURL    = "ws://localhost:4000/ws"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Server holds the matchmaking server configuration
type Server struct {
	// Addr is the listen address of the HTTP/websocket server
	Addr string `yaml:"addr"`

	// TickInterval is the period between pairing passes
	TickInterval time.Duration `yaml:"tick_interval"`

	// AllowedOrigins lists browser origins allowed to open a websocket.
	// "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// SendBuffer is the per-connection outbound message buffer
	SendBuffer int `yaml:"send_buffer"`

	// NATS fan-out for created rooms; disabled when NATSURL is empty
	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`
}

// Options for loading config with CLI flag overrides. Zero values mean
// "not set on the command line".
type Options struct {
	File           string
	Addr           string
	TickInterval   time.Duration
	AllowedOrigins []string
	SendBuffer     int
	NATSURL        string
	NATSSubject    string
}

// serverEnv mirrors Server for environment variables.
type serverEnv struct {
	Addr           string        `env:"MATCHMAKER_ADDR"`
	TickInterval   time.Duration `env:"MATCHMAKER_TICK_INTERVAL"`
	AllowedOrigins string        `env:"MATCHMAKER_ALLOWED_ORIGINS"`
	SendBuffer     int           `env:"MATCHMAKER_SEND_BUFFER"`
	NATSURL        string        `env:"MATCHMAKER_NATS_URL"`
	NATSSubject    string        `env:"MATCHMAKER_NATS_SUBJECT"`
}

// DefaultServer returns the built-in server configuration.
func DefaultServer() *Server {
	return &Server{
		Addr:           DefaultAddr,
		TickInterval:   DefaultTickInterval,
		AllowedOrigins: []string{DefaultOrigin},
		SendBuffer:     DefaultSendBuffer,
		NATSSubject:    DefaultNATSSubject,
	}
}

// Load reads configuration with the following priority:
// 1. CLI flags (passed via Options) - highest priority
// 2. Environment variables
// 3. YAML config file (Options.File)
// 4. Hardcoded defaults - lowest priority
func Load(opts Options) (*Server, error) {
	cfg := DefaultServer()

	if opts.File != "" {
		if err := cfg.loadFile(opts.File); err != nil {
			return nil, err
		}
	}

	var e serverEnv
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(e)
	cfg.applyFlags(opts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Server) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Server) applyEnv(e serverEnv) {
	if e.Addr != "" {
		c.Addr = e.Addr
	}
	if e.TickInterval != 0 {
		c.TickInterval = e.TickInterval
	}
	if origins := splitList(e.AllowedOrigins); len(origins) > 0 {
		c.AllowedOrigins = origins
	}
	if e.SendBuffer != 0 {
		c.SendBuffer = e.SendBuffer
	}
	if e.NATSURL != "" {
		c.NATSURL = e.NATSURL
	}
	if e.NATSSubject != "" {
		c.NATSSubject = e.NATSSubject
	}
}

func (c *Server) applyFlags(opts Options) {
	if opts.Addr != "" {
		c.Addr = opts.Addr
	}
	if opts.TickInterval != 0 {
		c.TickInterval = opts.TickInterval
	}
	if len(opts.AllowedOrigins) > 0 {
		c.AllowedOrigins = opts.AllowedOrigins
	}
	if opts.SendBuffer != 0 {
		c.SendBuffer = opts.SendBuffer
	}
	if opts.NATSURL != "" {
		c.NATSURL = opts.NATSURL
	}
	if opts.NATSSubject != "" {
		c.NATSSubject = opts.NATSSubject
	}
}

// Validate reports the first invalid field.
func (c *Server) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: listen address is empty", ErrInvalidConfig)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval must be positive, got %s", ErrInvalidConfig, c.TickInterval)
	case c.SendBuffer <= 0:
		return fmt.Errorf("%w: send buffer must be positive, got %d", ErrInvalidConfig, c.SendBuffer)
	}
	return nil
}

// Client holds configuration for the command-line clients
type Client struct {
	// ServerURL is the websocket endpoint of the matchmaker
	ServerURL string

	// Codec is the wire codec negotiated with the server
	Codec string
}

// ClientOptions for loading client config with CLI flag overrides
type ClientOptions struct {
	ServerURL string
	Codec     string
}

type clientEnv struct {
	ServerURL string `env:"MATCHMAKER_SERVER"`
	Codec     string `env:"MATCHMAKER_CODEC"`
}

// LoadClient reads client configuration: CLI flag > env > default.
func LoadClient(opts ClientOptions) (*Client, error) {
	var e clientEnv
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg := &Client{
		ServerURL: firstNonEmpty(opts.ServerURL, e.ServerURL, DefaultServerURL),
		Codec:     firstNonEmpty(opts.Codec, e.Codec, "json"),
	}

	u, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("%w: server url: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("%w: server url must use ws or wss, got %q", ErrInvalidConfig, cfg.ServerURL)
	}
	if cfg.Codec != "json" && cfg.Codec != "msgpack" {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, cfg.Codec)
	}
	return cfg, nil
}

// StatsURL returns the HTTP stats endpoint served next to the websocket.
func (c *Client) StatsURL() string {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return ""
	}
	if u.Scheme == "wss" {
		u.Scheme = "https"
	} else {
		u.Scheme = "http"
	}
	u.Path = "/stats"
	u.RawQuery = ""
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
