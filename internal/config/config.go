package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, URL verification,
// sessions and the companion authentication.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"15s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Verifier contains settings for URL normalization and the TLS probe
	Verifier struct {
		// MaxURLLength caps the accepted length of a raw input URL
		MaxURLLength int `env:"VERIFIER_MAX_URL_LENGTH" env-default:"2048" yaml:"maxUrlLength"`
		// HandshakeTimeout bounds the TLS handshake and the follow-up GET
		HandshakeTimeout time.Duration `env:"VERIFIER_HANDSHAKE_TIMEOUT" env-default:"5s" yaml:"handshakeTimeout"`
		// DNSTimeout bounds the DNS resolution performed by the SSRF guard
		DNSTimeout time.Duration `env:"VERIFIER_DNS_TIMEOUT" env-default:"2s" yaml:"dnsTimeout"`
	} `yaml:"verifier"`

	// Whitelist configures the static allow-list source
	Whitelist struct {
		// Path is the JSON file holding the array of trusted domains
		Path string `env:"WHITELIST_PATH" env-default:"domains.json" yaml:"path"`
	} `yaml:"whitelist"`

	// Session configures the verification session engine
	Session struct {
		// TTL is how long a session stays pending absent a decision
		TTL time.Duration `env:"SESSION_TTL" env-default:"2m" yaml:"ttl"`
		// RetentionGrace is how long terminal sessions stay readable before reclamation
		RetentionGrace time.Duration `env:"SESSION_RETENTION_GRACE" env-default:"6m" yaml:"retentionGrace"`
		// SweepInterval is how often the reclamation sweep runs
		SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" env-default:"30s" yaml:"sweepInterval"`
		// ConfirmBaseURL is the verification URL embedded in QR payloads
		ConfirmBaseURL string `env:"SESSION_CONFIRM_BASE_URL" env-default:"https://localhost:8080/v1/sessions" yaml:"confirmBaseUrl"` //nolint: lll
	} `yaml:"session"`

	// JWT configures companion authentication for session decisions
	JWT struct {
		// Secret is the HMAC key used to sign and verify companion tokens
		Secret string `env:"JWT_SECRET" env-default:"" yaml:"secret"`
	} `yaml:"jwt"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
