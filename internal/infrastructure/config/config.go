package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Android emulators reach the host machine through this alias.
const androidHostAlias = "10.0.2.2"

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API       APIConfig
	Server    ServerConfig
	Mongo     MongoConfig
	Telemetry TelemetryConfig
	Metrics   MetricsConfig
}

// APIConfig locates the remote user-management API.
type APIConfig struct {
	// BaseURL overrides the URL derived from Platform, Port and Path.
	BaseURL  string        `env:"API_BASE_URL"`
	Platform string        `env:"API_PLATFORM, default=ios"`
	Port     int           `env:"API_PORT,     default=3000"`
	Path     string        `env:"API_PATH,     default=/api/test-db"`
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration `env:"API_TIMEOUT,  default=0s"`
}

// ServerConfig configures the sandbox API server.
type ServerConfig struct {
	Port string `env:"PORT, default=3000"`
	Path string `env:"API_PATH, default=/api/test-db"`
}

type MongoConfig struct {
	// URI selects the MongoDB store; empty keeps the sandbox in memory.
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=clublink"`
}

// TelemetryConfig selects the trace exporter. An empty endpoint with Stdout
// off disables tracing.
type TelemetryConfig struct {
	ServiceName string `env:"OTEL_SERVICE_NAME,           default=usersync"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Stdout      bool   `env:"OTEL_TRACES_STDOUT,          default=false"`
}

// MetricsConfig controls where CLI runs push their controller metrics. An
// empty URL disables pushing.
type MetricsConfig struct {
	PushgatewayURL string `env:"METRICS_PUSHGATEWAY_URL"`
	Job            string `env:"METRICS_JOB, default=usersync"`
}

// ResolvedBaseURL returns BaseURL when set, otherwise the local development
// URL for the configured platform.
func (a APIConfig) ResolvedBaseURL() string {
	if a.BaseURL != "" {
		return strings.TrimRight(a.BaseURL, "/")
	}
	host := "localhost"
	if strings.EqualFold(strings.TrimSpace(a.Platform), "android") {
		host = androidHostAlias
	}
	return fmt.Sprintf("http://%s:%d%s", host, a.Port, a.Path)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
