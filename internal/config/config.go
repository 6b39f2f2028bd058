package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bridge.
type Config struct {
	App      AppConfig
	Zammad   ZammadConfig
	Webhook  WebhookConfig
	Poller   PollerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// ZammadConfig holds connection values for the Zammad instance.
type ZammadConfig struct {
	BaseURL    string
	Token      string
	OAuthToken string
	Username   string
	Password   string
}

// WebhookConfig configures the inbound webhook endpoint.
type WebhookConfig struct {
	Enabled         bool
	Path            string
	Secret          string
	SignatureHeader string
	EventHeader     string
}

// PollerConfig configures the polling reconciliation loop.
type PollerConfig struct {
	Enabled         bool
	IntervalSeconds int
	PageSize        int
}

// PostgresConfig holds DB connection values for the event journal.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values for the event relay.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	RelayChannel string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	baseURL := os.Getenv("ZAMMAD_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("ZAMMAD_URL is required")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "zammad-bridge"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Zammad: ZammadConfig{
			BaseURL:    baseURL,
			Token:      os.Getenv("ZAMMAD_TOKEN"),
			OAuthToken: os.Getenv("ZAMMAD_OAUTH_TOKEN"),
			Username:   os.Getenv("ZAMMAD_USERNAME"),
			Password:   os.Getenv("ZAMMAD_PASSWORD"),
		},
		Webhook: WebhookConfig{
			Enabled:         getEnvAsBool("WEBHOOK_ENABLED", true),
			Path:            getEnv("WEBHOOK_PATH", "/webhooks/zammad"),
			Secret:          os.Getenv("WEBHOOK_SECRET"),
			SignatureHeader: getEnv("WEBHOOK_SIGNATURE_HEADER", "X-Zammad-Signature"),
			EventHeader:     getEnv("WEBHOOK_EVENT_HEADER", "X-Zammad-Event"),
		},
		Poller: PollerConfig{
			Enabled:         getEnvAsBool("POLLER_ENABLED", false),
			IntervalSeconds: getEnvAsInt("POLL_INTERVAL_SECONDS", 30),
			PageSize:        getEnvAsInt("POLL_PAGE_SIZE", 200),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           redisDB,
			RelayChannel: os.Getenv("EVENT_RELAY_CHANNEL"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Interval returns the poll interval duration.
func (p PollerConfig) Interval() time.Duration {
	if p.IntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.IntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
