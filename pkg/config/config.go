package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Authentication (API only; CLI runs are trusted)
	Auth AuthConfig

	// Redis
	Redis RedisConfig

	// History cache
	Cache CacheConfig

	// External sources
	Yahoo    YahooConfig
	Universe UniverseConfig

	// HTTP
	HTTPTimeout time.Duration

	// Strategy profile (YAML) used by the scheduler
	StrategyFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// AuthConfig holds the operator credentials
type AuthConfig struct {
	User     string
	Password string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// CacheConfig holds history cache configuration
type CacheConfig struct {
	Dir             string        // directory backend root (used when Redis is disabled)
	TTL             time.Duration // 0 disables caching
	RetainOnSuccess bool          // keep the entry after a successful run
}

// YahooConfig holds the daily history provider configuration
type YahooConfig struct {
	BaseURL    string
	RatePerSec float64 // 0 disables pacing
}

// UniverseConfig holds ticker source locations
type UniverseConfig struct {
	IBRX100Path string
	SP500URL    string
	SP100URL    string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Auth: AuthConfig{
			User:     getEnv("AUTH_USER", ""),
			Password: getEnv("AUTH_PASSWORD", ""),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Cache: CacheConfig{
			Dir:             getEnv("CACHE_DIR", "./temp"),
			TTL:             getEnvAsDuration("CACHE_TTL", "1h"),
			RetainOnSuccess: getEnvAsBool("CACHE_RETAIN_ON_SUCCESS", false),
		},

		Yahoo: YahooConfig{
			BaseURL:    getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			RatePerSec: getEnvAsFloat("YAHOO_RATE_PER_SEC", 2),
		},

		Universe: UniverseConfig{
			IBRX100Path: getEnv("IBRX100_PATH", "./IBXXDia_20-06-25.csv"),
			SP500URL:    getEnv("SP500_URL", "https://www.slickcharts.com/sp500"),
			SP100URL:    getEnv("SP100_URL", "https://en.wikipedia.org/w/index.php?title=S%26P_100&oldid=1260310089"),
		},

		HTTPTimeout:  getEnvAsDuration("HTTP_TIMEOUT", "30s"),
		StrategyFile: getEnv("STRATEGY_FILE", "config/strategy/ibrx100_dual_momentum.yaml"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	if c.Yahoo.RatePerSec < 0 {
		return fmt.Errorf("YAHOO_RATE_PER_SEC must not be negative")
	}

	return nil
}

// AuthConfigured reports whether operator credentials are present
func (c *Config) AuthConfigured() bool {
	return c.Auth.User != "" && c.Auth.Password != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
