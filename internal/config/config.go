// Package config loads process configuration from the environment.
// A .env file in the working directory (or the path in ENV_FILE) is read first
// when present; real environment variables always win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full process configuration shared by cmd/server and cmd/worker.
type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	Log      LogConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	ANAF     ANAFConfig
	Mail     MailConfig
	Broker   BrokerConfig
	Worker   WorkerConfig
	Policy   PolicyConfig

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL,required"`
	MaxConns        int32         `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	MinConns        int32         `env:"DATABASE_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"30m"`
}

type JWTConfig struct {
	Secret string `env:"JWT_SECRET,required"`
	Issuer string `env:"JWT_ISSUER" envDefault:"onghub"`
}

type StorageConfig struct {
	Endpoint      string        `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey     string        `env:"MINIO_ACCESS_KEY"`
	SecretKey     string        `env:"MINIO_SECRET_KEY"`
	UseSSL        bool          `env:"MINIO_USE_SSL" envDefault:"false"`
	Bucket        string        `env:"MINIO_BUCKET" envDefault:"onghub"`
	PresignExpiry time.Duration `env:"MINIO_PRESIGN_EXPIRY" envDefault:"1h"`
	MaxFileSize   int64         `env:"MAX_UPLOAD_SIZE_BYTES" envDefault:"5242880"`
}

type ANAFConfig struct {
	BaseURL string        `env:"ANAF_URL" envDefault:"https://webservicesp.anaf.ro/bilant"`
	Timeout time.Duration `env:"ANAF_TIMEOUT" envDefault:"15s"`
}

type MailConfig struct {
	Host     string `env:"SMTP_HOST" envDefault:"localhost"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM" envDefault:"no-reply@onghub.ro"`
	FromName string `env:"MAIL_FROM_NAME" envDefault:"ONG Hub"`
}

type BrokerConfig struct {
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"onghub.events"`
}

type WorkerConfig struct {
	ANAFRefetchInterval time.Duration `env:"WORKER_ANAF_REFETCH_INTERVAL" envDefault:"24h"`
	OutboxPollInterval  time.Duration `env:"WORKER_OUTBOX_POLL_INTERVAL" envDefault:"5s"`
	OutboxBatchSize     uint64        `env:"WORKER_OUTBOX_BATCH_SIZE" envDefault:"100"`
	// ReportingCycleMonth/Day mark the yearly date on which new reporting
	// entries are created for every active organization.
	ReportingCycleMonth time.Month `env:"WORKER_REPORTING_MONTH" envDefault:"6"`
	ReportingCycleDay   int        `env:"WORKER_REPORTING_DAY" envDefault:"1"`
}

// PolicyConfig holds business switches whose right value is a product decision.
type PolicyConfig struct {
	// ANAFFailOnCreate aborts registration when the registry lookup fails.
	ANAFFailOnCreate bool `env:"ANAF_FAIL_ON_CREATE" envDefault:"false"`
	// ReportingYearOffset selects the year targeted by a reporting cycle (now - offset).
	ReportingYearOffset int `env:"REPORTING_YEAR_OFFSET" envDefault:"1"`
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads .env (if any) and parses the environment into Config.
func Load() (*Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Policy.ReportingYearOffset < 0 {
		return nil, fmt.Errorf("REPORTING_YEAR_OFFSET must not be negative")
	}
	return &cfg, nil
}
