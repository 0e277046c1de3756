package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Log       LogConfig
	Catalog   CatalogConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig configures planner identity. When Required is false the
// X-Planner-ID header is accepted without a token (development mode).
type AuthConfig struct {
	Secret   string
	Required bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig tunes course search behaviour.
type CatalogConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	CacheTTL        time.Duration
}

// StorageConfig gates the persisted snapshot namespace. Bumping Version
// wipes every key under Namespace on the next startup.
type StorageConfig struct {
	Namespace string
	Version   int
}

// TelemetryConfig controls the fire-and-forget selection event sink.
type TelemetryConfig struct {
	Enabled  bool
	Endpoint string
	Timeout  time.Duration
	Workers  int
	Buffer   int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		Secret:   v.GetString("AUTH_SECRET"),
		Required: v.GetBool("AUTH_REQUIRED"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		DefaultPageSize: v.GetInt("CATALOG_PAGE_SIZE"),
		MaxPageSize:     v.GetInt("CATALOG_MAX_PAGE_SIZE"),
		CacheTTL:        parseDuration(v.GetString("CATALOG_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Storage = StorageConfig{
		Namespace: v.GetString("STORAGE_NAMESPACE"),
		Version:   v.GetInt("STORAGE_VERSION"),
	}

	cfg.Telemetry = TelemetryConfig{
		Enabled:  v.GetBool("TELEMETRY_ENABLED"),
		Endpoint: v.GetString("TELEMETRY_ENDPOINT"),
		Timeout:  parseDuration(v.GetString("TELEMETRY_TIMEOUT"), 5*time.Second),
		Workers:  v.GetInt("TELEMETRY_WORKERS"),
		Buffer:   v.GetInt("TELEMETRY_BUFFER"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "schedule_builder")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_SECRET", "dev_secret")
	v.SetDefault("AUTH_REQUIRED", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_PAGE_SIZE", 20)
	v.SetDefault("CATALOG_MAX_PAGE_SIZE", 100)
	v.SetDefault("CATALOG_CACHE_TTL", "10m")

	v.SetDefault("STORAGE_NAMESPACE", "schedule")
	v.SetDefault("STORAGE_VERSION", 1)

	v.SetDefault("TELEMETRY_ENABLED", false)
	v.SetDefault("TELEMETRY_ENDPOINT", "")
	v.SetDefault("TELEMETRY_TIMEOUT", "5s")
	v.SetDefault("TELEMETRY_WORKERS", 1)
	v.SetDefault("TELEMETRY_BUFFER", 64)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
