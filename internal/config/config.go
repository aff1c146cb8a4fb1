package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-disaster-reports/internal/geo"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Worker  WorkerConfig
	Audit   AuditConfig
	Import  ImportConfig
	API     APIConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StoreConfig struct {
	Central    geo.Coordinate
	MaxReports int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type AuditConfig struct {
	Path string
}

type ImportConfig struct {
	File string
}

type APIConfig struct {
	RateLimitRPS  int
	QueryCacheTTL time.Duration
	AllowOrigins  []string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Store: StoreConfig{
			Central: geo.Coordinate{
				Latitude:  getEnvFloat("CENTRAL_LATITUDE", -23.5505),
				Longitude: getEnvFloat("CENTRAL_LONGITUDE", -46.6333),
			},
			MaxReports: getEnvInt("MAX_REPORTS", 1000),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 1),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 100),
		},
		Audit: AuditConfig{
			Path: getEnv("AUDIT_DB_PATH", ":memory:"),
		},
		Import: ImportConfig{
			File: getEnv("IMPORT_FILE", ""),
		},
		API: APIConfig{
			RateLimitRPS:  getEnvInt("RATE_LIMIT_RPS", 5),
			QueryCacheTTL: getEnvDuration("QUERY_CACHE_TTL", 30*time.Second),
			AllowOrigins:  getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d", ErrInvalidConfig, c.Server.Port)
	}

	if err := c.Store.Central.Validate(); err != nil {
		return fmt.Errorf("%w: central point: %w", ErrInvalidConfig, err)
	}
	if c.Store.MaxReports < 1 {
		return fmt.Errorf("%w: MAX_REPORTS must be at least 1, got %d", ErrInvalidConfig, c.Store.MaxReports)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("%w: WORKER_COUNT must be at least 1, got %d", ErrInvalidConfig, c.Worker.Count)
	}
	if c.Worker.BufferSize < 1 {
		return fmt.Errorf("%w: WORKER_BUFFER_SIZE must be at least 1, got %d", ErrInvalidConfig, c.Worker.BufferSize)
	}

	if c.API.RateLimitRPS < 1 {
		return fmt.Errorf("%w: RATE_LIMIT_RPS must be at least 1, got %d", ErrInvalidConfig, c.API.RateLimitRPS)
	}
	if c.API.QueryCacheTTL < 0 {
		return fmt.Errorf("%w: QUERY_CACHE_TTL must not be negative", ErrInvalidConfig)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("%w: log level %s", ErrInvalidConfig, c.Logging.Level)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
