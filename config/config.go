package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// MinBcryptCost is the lowest cost accepted from the environment.
	MinBcryptCost = 10
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Security  SecurityConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Log       LogConfig
	Assistant AssistantConfig
}

type ServerConfig struct {
	Port            string
	GinMode         string
	Version         string
	ShutdownTimeout time.Duration
	HealthInterval  time.Duration
	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string
}

type DatabaseConfig struct {
	Driver         string
	MongoURI       string
	MongoDatabase  string
	URL            string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type SecurityConfig struct {
	BcryptCost int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	URL               string
	AnalyticsCacheTTL time.Duration
}

// AssistantConfig configures the symptom checker's language model. An empty
// key runs the checker without a model.
type AssistantConfig struct {
	GeminiAPIKey string
	Model        string
	BaseURL      string
	Timeout      time.Duration
}

type LogConfig struct {
	Level slog.Level
}

// Load reads the configuration from the environment. Secrets have no
// fallback values: a missing JWT_SECRET is an error.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			GinMode:         getEnv("GIN_MODE", "debug"),
			Version:         getEnv("APP_VERSION", "1.0.0"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			HealthInterval:  getEnvAsDuration("HEALTH_CHECK_INTERVAL", 30*time.Second),
			TrustedProxies:  getEnvAsList("TRUSTED_PROXIES"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
			MongoURI:       getEnv("MONGODB_URI", ""),
			MongoDatabase:  getEnv("MONGODB_DATABASE", "medmind"),
			URL:            getEnv("DB_URL", ""),
			ConnectTimeout: getEnvAsDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
			QueryTimeout:   getEnvAsDuration("DB_QUERY_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
			Issuer: getEnv("JWT_ISSUER", "medmind-server"),
		},
		Security: SecurityConfig{
			BcryptCost: getEnvAsInt("BCRYPT_COST", 12),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		},
		Redis: RedisConfig{
			URL:               getEnv("REDIS_URL", ""),
			AnalyticsCacheTTL: getEnvAsDuration("ANALYTICS_CACHE_TTL", 30*time.Second),
		},
		Log: LogConfig{
			Level: parseLevel(getEnv("LOG_LEVEL", "info")),
		},
		Assistant: AssistantConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:      getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWT.Expiry)
	}
	if c.Security.BcryptCost < MinBcryptCost {
		c.Security.BcryptCost = MinBcryptCost
	}
	for _, proxy := range c.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES: %q is neither an IP nor a CIDR", proxy)
			}
		}
	}

	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.MongoURI == "" {
			return errors.New("MONGODB_URI is required when DB_DRIVER=mongodb")
		}
	case DriverPostgres, DriverSQLite:
		if c.Database.URL == "" {
			return fmt.Errorf("DB_URL is required when DB_DRIVER=%s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}

// IsProduction reports whether internal error details must be hidden.
func (c *Config) IsProduction() bool {
	return c.Server.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
