package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the full service configuration, populated from the
// environment.
type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Moodle    MoodleConfig
	Webhook   WebhookConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type HTTPConfig struct {
	Port          int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownGrace time.Duration `env:"HTTP_SHUTDOWN_GRACE" envDefault:"15s"`
}

type DatabaseConfig struct {
	URL            string `env:"DATABASE_URL"`
	AutoMigrate    bool   `env:"DATABASE_AUTO_MIGRATE" envDefault:"true"`
	MigrationsPath string `env:"DATABASE_MIGRATIONS_PATH" envDefault:"migrations"`
}

type MoodleConfig struct {
	URL           string        `env:"MOODLE_URL"`
	Token         string        `env:"MOODLE_TOKEN"`
	Timeout       time.Duration `env:"MOODLE_TIMEOUT" envDefault:"15s"`
	StudentRoleID int           `env:"MOODLE_STUDENT_ROLE_ID" envDefault:"5"`
	Simulate      bool          `env:"MOODLE_SIMULATE" envDefault:"false"`
}

type WebhookConfig struct {
	Secret string `env:"WEBHOOK_SECRET"`
}

type TelemetryConfig struct {
	LogLevel      string  `env:"LOG_LEVEL" envDefault:"info"`
	OTelEndpoint  string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTracing bool    `env:"TELEMETRY_ENABLE_TRACING" envDefault:"false"`
	EnableMetrics bool    `env:"TELEMETRY_ENABLE_METRICS" envDefault:"false"`
	SampleRate    float64 `env:"TELEMETRY_SAMPLE_RATE" envDefault:"1.0"`
}

type ServiceConfig struct {
	Name        string `env:"SERVICE_NAME" envDefault:"academia-api"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`
	Environment string `env:"SERVICE_ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
