package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the journey service
type Config struct {
	AppEnv string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Postgres
	PGHost     string
	PGPort     string
	PGUser     string
	PGDatabase string
	PGPassword string
	PGSSLMode  string

	// Cache
	CacheBackend   string // "memory" or "redis"
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	SearchCacheTTL time.Duration

	// Journey index pipeline
	JourneyQueueCapacity   int
	JourneyWorkers         int
	JourneyShutdownTimeout time.Duration
	JourneyMonitorInterval time.Duration
	RefreshConcurrency     int
	NodeID                 int64

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadConfig loads configuration from the environment, reading a .env file first if present
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGUser:     getEnv("PG_USER", "postgres"),
		PGDatabase: getEnv("PG_DB", "flights"),
		PGPassword: getEnv("PG_PASSWORD", ""),
		PGSSLMode:  getEnv("PG_SSLMODE", "disable"),

		CacheBackend:   strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		SearchCacheTTL: time.Duration(getEnvAsInt("SEARCH_CACHE_TTL", 60)) * time.Second,

		JourneyQueueCapacity:   getEnvAsInt("JOURNEY_QUEUE_CAPACITY", 1000),
		JourneyWorkers:         getEnvAsInt("JOURNEY_WORKERS", 2),
		JourneyShutdownTimeout: time.Duration(getEnvAsInt("JOURNEY_SHUTDOWN_TIMEOUT", 30)) * time.Second,
		JourneyMonitorInterval: time.Duration(getEnvAsInt("JOURNEY_MONITOR_INTERVAL", 30)) * time.Second,
		RefreshConcurrency:     getEnvAsInt("REFRESH_CONCURRENCY", 4),
		NodeID:                 int64(getEnvAsInt("NODE_ID", 1)),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.JourneyQueueCapacity < 1 {
		return fmt.Errorf("JOURNEY_QUEUE_CAPACITY must be positive, got %d", c.JourneyQueueCapacity)
	}
	if c.JourneyWorkers < 1 {
		return fmt.Errorf("JOURNEY_WORKERS must be positive, got %d", c.JourneyWorkers)
	}
	if c.RefreshConcurrency < 1 {
		return fmt.Errorf("REFRESH_CONCURRENCY must be positive, got %d", c.RefreshConcurrency)
	}
	if c.CacheBackend != "memory" && c.CacheBackend != "redis" {
		return fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", c.CacheBackend)
	}
	return nil
}

// PostgresDSN builds the connection string shared by sqlx and GORM
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase, c.PGSSLMode)
}

// RedisAddr returns host:port for the Redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
