package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type HTTPCfg struct {
	Port            int           `env:"HTTP_PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type GrpcCfg struct {
	Port int `env:"GRPC_PORT" envDefault:"0"`
}

// Enabled reports whether gRPC server must be started
func (c GrpcCfg) Enabled() bool {
	return c.Port > 0
}

type StorageCfg struct {
	Driver         string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	ConnectTimeout time.Duration `env:"STORAGE_CONNECT_TIMEOUT" envDefault:"5s"`
}

type PostgresCfg struct {
	Host        string `env:"POSTGRES_HOST" envDefault:"pg-customers"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User        string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password    string `env:"POSTGRES_PASSWORD" envDefault:""`
	Database    string `env:"POSTGRES_DB" envDefault:"customers"`
	SslMode     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
}

// DSN builds connection string in key/value format accepted by pgx
func (c PostgresCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SslMode,
	)
}

type MongoCfg struct {
	Host        string `env:"MONGO_HOST" envDefault:"mongo-customers"`
	Port        int    `env:"MONGO_PORT" envDefault:"27017"`
	User        string `env:"MONGO_USER" envDefault:""`
	Password    string `env:"MONGO_PASSWORD" envDefault:""`
	Database    string `env:"MONGO_DB" envDefault:"customers"`
	MaxPoolSize int    `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
}

// URI builds mongodb connection uri, credentials are escaped and omitted if user is not set
func (c MongoCfg) URI() string {
	u := url.URL{
		Scheme:   "mongodb",
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/",
		RawQuery: fmt.Sprintf("maxPoolSize=%d", c.MaxPoolSize),
	}

	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

type LogCfg struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

type TelemetryCfg struct {
	Enabled     bool   `env:"TELEMETRY_ENABLED" envDefault:"false"`
	ServiceName string `env:"TELEMETRY_SERVICE_NAME" envDefault:"customers-api"`
}

type Config struct {
	HTTPCfg      HTTPCfg
	GrpcCfg      GrpcCfg
	StorageCfg   StorageCfg
	PostgresCfg  PostgresCfg
	MongoCfg     MongoCfg
	LogCfg       LogCfg
	TelemetryCfg TelemetryCfg
}

// Build loads variables from .env files (if any) and parses configuration from environment
func Build(envFiles ...string) (Config, error) {
	var cfg Config

	if err := loadEnvFiles(envFiles...); err != nil {
		return cfg, err
	}

	opts := env.Options{RequiredIfNoDef: true}
	if err := env.Parse(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageCfg.Driver {
	case StorageDriverPostgres, StorageDriverMongo:
	default:
		return fmt.Errorf("unsupported storage driver %q, expected %s or %s", c.StorageCfg.Driver, StorageDriverPostgres, StorageDriverMongo)
	}

	switch c.LogCfg.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unsupported log format %q, expected %s or %s", c.LogCfg.Format, LogFormatText, LogFormatJSON)
	}

	if c.HTTPCfg.Port <= 0 {
		return fmt.Errorf("http port must be positive, got %d", c.HTTPCfg.Port)
	}
	return nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		// variables already present in environment take precedence
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s - %w", f, err)
		}
	}
	return nil
}
