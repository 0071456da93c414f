package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"1"`

	JWTSecret   string `env:"JWT_SECRET"`
	JWTIssuer   string `env:"JWT_ISSUER"`
	JWTAudience string `env:"JWT_AUDIENCE"`
	JWKSURL     string `env:"JWKS_URL"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	ReportCacheTTL time.Duration `env:"REPORT_CACHE_TTL" envDefault:"5m"`

	RabbitMQURL    string `env:"RABBITMQ_URL"`
	EventsExchange string `env:"EVENTS_EXCHANGE" envDefault:"dine.events"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	ReceiptsBucket string `env:"RECEIPTS_BUCKET" envDefault:"receipts"`

	LowStockInterval time.Duration `env:"LOW_STOCK_INTERVAL" envDefault:"15m"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the process configuration.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.JWKSURL == "" {
		return fmt.Errorf("one of JWT_SECRET or JWKS_URL must be set")
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT")
	}
	return nil
}
