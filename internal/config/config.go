package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Environment names the deployment stage the process runs in.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// URL takes precedence over the individual components when set.
type DatabaseConfig struct {
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig controls the per-client fixed window limiter.
// A Max of zero disables limiting.
type RateLimitConfig struct {
	Max       int
	WindowSec int
}

// LogConfig selects the slog level and output format ("json" or "text").
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env            Environment
	Port           string
	MaxRequestSize int
	EnableSwagger  bool
	Database       DatabaseConfig
	CORS           CORSConfig
	RateLimit      RateLimitConfig
	Log            LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Env:            parseEnvironment(getEnv("APP_ENV", string(EnvDevelopment))),
		Port:           getEnv("PORT", "3737"),
		MaxRequestSize: getEnvInt("MAX_REQUEST_SIZE", 262144),
		EnableSwagger:  getEnvBool("ENABLE_SWAGGER", true),
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		RateLimit: RateLimitConfig{
			Max:       getEnvInt("RATE_LIMIT_MAX", 100),
			WindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate rejects settings the server must not start with.
func (c *AppConfig) Validate() error {
	if c.Env == EnvProduction {
		for _, o := range c.CORS.AllowedOrigins {
			if o == "*" {
				return errors.New("CORS wildcard (*) is not allowed in production")
			}
		}
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}
	if c.Database.MaxOpenConns <= 0 {
		return errors.New("database max open connections must be greater than 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return errors.New("database max idle connections must be greater than 0")
	}
	return nil
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

func parseEnvironment(v string) Environment {
	switch strings.ToLower(v) {
	case "production":
		return EnvProduction
	case "staging":
		return EnvStaging
	default:
		return EnvDevelopment
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
