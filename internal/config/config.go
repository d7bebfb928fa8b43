package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Store backends.
const (
	BackendMySQL    = "mysql"
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string
	Env      string // development | production

	// CORS allow-list, enforced only in production
	AllowedOrigins []string

	// Persistence
	StoreBackend         string
	MySQLDSN             string
	MySQLMaxOpenConns    int
	MySQLMaxIdleConns    int
	MySQLConnMaxLifetime time.Duration

	// Cache
	RedisURL string
	CacheTTL time.Duration

	// HTTP client (Supabase)
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Observability
	OTLPEndpoint string

	// Supabase
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string

	// JWT / Auth (local identity provider)
	JWTSecret string
	JWTTTL    time.Duration
}

// IsProduction reports whether the API runs with production policies.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required for the %s backend", BackendMySQL)
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required for the %s backend", BackendSupabase)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	if c.IsProduction() && c.StoreBackend != BackendSupabase && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

const defaultJWTSecret = "rentease-dev-secret-change-me"

// Load reads configuration from environment variables with defaults.
// Values from the YAML file named by CONFIG_FILE are applied first, so the
// environment always wins.
func Load() (*Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(path); err != nil {
			return nil, err
		}
	}

	return &Config{
		Port:     getEnvInt("PORT", 3001),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Env:      getEnv("APP_ENV", "development"),

		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
			"http://127.0.0.1:5173",
		}),

		StoreBackend:         getEnv("STORE_BACKEND", BackendMySQL),
		MySQLDSN:             getEnv("MYSQL_DSN", ""),
		MySQLMaxOpenConns:    getEnvInt("MYSQL_MAX_OPEN_CONNS", 25),
		MySQLMaxIdleConns:    getEnvInt("MYSQL_MAX_IDLE_CONNS", 10),
		MySQLConnMaxLifetime: getEnvDuration("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getEnvDuration("CACHE_TTL", 0),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 100),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SupabaseURL:        strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:    getEnvDuration("JWT_TTL", 7*24*time.Hour),
	}, nil
}

// applyFile sets unset environment variables from a flat YAML map, e.g.
//
//	PORT: 3001
//	STORE_BACKEND: supabase
func applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	for k, v := range values {
		key := strings.ToUpper(k)
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(v)); err != nil {
			return fmt.Errorf("apply config key %s: %w", key, err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
