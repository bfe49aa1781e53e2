package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type AppConfig struct {
	Port        string
	Environment string
	ServiceName string
	Store       string

	MetricsPort  string
	OTLPEndpoint string
	LokiURL      string

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	CacheEnabled bool
	CacheTTL     time.Duration

	EnforceHTTPS bool
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:        "3000",
		Environment: "development",
		ServiceName: "todoapi",
		Store:       StoreMemory,
		MetricsPort: "9091",

		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"GET /todos": {
				Requests: 100,
				Window:   time.Minute,
			},
			"POST /todos": {
				Requests: 30,
				Window:   time.Minute,
			},
			"PUT /todos/:id": {
				Requests: 30,
				Window:   time.Minute,
			},
			"DELETE /todos/:id": {
				Requests: 30,
				Window:   time.Minute,
			},
			"default": {
				Requests: 120,
				Window:   time.Minute,
			},
		},

		CacheEnabled: false,
		CacheTTL:     3 * time.Second,

		EnforceHTTPS: false,
	}
}

// Load reads an optional .env file and then the process environment on top
// of the defaults.
func Load(files ...string) *AppConfig {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Could not load .env file", "error", err)
	}

	config := GetDefaultConfig()

	config.Port = getEnv("PORT", config.Port)
	config.Environment = getEnv("APP_ENV", config.Environment)
	config.Store = getEnv("TODO_STORE", config.Store)
	config.MetricsPort = getEnv("METRICS_PORT", config.MetricsPort)
	config.OTLPEndpoint = getEnv("OTLP_ENDPOINT", config.OTLPEndpoint)
	config.LokiURL = getEnv("LOKI_URL", config.LokiURL)

	config.RateLimitEnabled = getEnvBool("RATE_LIMIT_ENABLED", config.RateLimitEnabled)
	config.CacheEnabled = getEnvBool("CACHE_ENABLED", config.CacheEnabled)
	config.EnforceHTTPS = getEnvBool("ENFORCE_HTTPS", config.EnforceHTTPS) || os.Getenv("GIN_MODE") == "release"

	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}
