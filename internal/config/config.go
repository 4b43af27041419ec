// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Parse    ParseConfig
	Suggest  SuggestConfig
	Registry RegistryConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 120s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"120s"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers are honored.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// DatabaseConfig holds database connection settings. The database is
// optional: with no URL the service runs stateless and skips run history.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables persistence.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// Enabled reports whether persistence is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// UploadConfig holds spreadsheet upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 25MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"26214400"`

	// MaxConcurrent is the maximum number of parallel parses (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for a parse slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// ParseConfig holds engine tuning knobs.
type ParseConfig struct {
	// HeaderScanRows bounds the header-row search (default: 10)
	HeaderScanRows int `env:"PARSE_HEADER_SCAN_ROWS" default:"10"`

	// ChunkSize is data rows per worker batch (default: 200)
	ChunkSize int `env:"PARSE_CHUNK_SIZE" default:"200"`

	// Workers is the maximum number of concurrent batch workers (default: 4)
	Workers int `env:"PARSE_WORKERS" default:"4"`
}

// SuggestConfig holds the optional LLM suggestion settings. With no API key
// the service relies on deterministic resolution only.
type SuggestConfig struct {
	// APIKey authenticates against the Gemini API. Empty disables suggestions.
	APIKey string `env:"GEMINI_API_KEY" envAlt:"GOOGLE_API_KEY"`

	// Model is the Gemini model name (default: gemini-2.0-flash)
	Model string `env:"SUGGEST_MODEL" default:"gemini-2.0-flash"`

	// Timeout bounds a single suggestion call (default: 10s)
	Timeout time.Duration `env:"SUGGEST_TIMEOUT" default:"10s"`
}

// Enabled reports whether the suggestion collaborator is configured.
func (c *SuggestConfig) Enabled() bool {
	return c.APIKey != ""
}

// RegistryConfig holds registry loading settings.
type RegistryConfig struct {
	// Path points to a JSON registry file. Empty uses the built-in defaults.
	Path string `env:"REGISTRY_PATH"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
