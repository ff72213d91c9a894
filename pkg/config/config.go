package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Session store drivers.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Sessions SessionsConfig
	CORS     CORSConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Docs     DocsConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AdminConfig holds the administrator gate credentials. PasswordHash wins when both are set.
type AdminConfig struct {
	Password     string
	PasswordHash string
}

// SessionsConfig controls where generated session batches live and how they are randomised.
type SessionsConfig struct {
	Store    string
	BatchTTL time.Duration
	Seed     int64
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// DocsConfig toggles the swagger UI outside production.
type DocsConfig struct {
	Enabled bool
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 8*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Admin = AdminConfig{
		Password:     v.GetString("ADMIN_PASSWORD"),
		PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}

	store := strings.ToLower(strings.TrimSpace(v.GetString("SESSION_STORE")))
	if store != SessionStoreRedis {
		store = SessionStoreMemory
	}
	cfg.Sessions = SessionsConfig{
		Store:    store,
		BatchTTL: parseDuration(v.GetString("SESSION_BATCH_TTL"), cfg.JWT.Expiration),
		Seed:     v.GetInt64("SESSION_SEED"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}
	cfg.Docs = DocsConfig{Enabled: v.GetBool("ENABLE_DOCS") && cfg.Env != EnvProduction}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "8h")
	v.SetDefault("JWT_ISSUER", "performance-portal")

	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")

	v.SetDefault("SESSION_STORE", SessionStoreMemory)
	v.SetDefault("SESSION_BATCH_TTL", "")
	v.SetDefault("SESSION_SEED", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ENABLE_DOCS", true)
}

// isMissingFile reports whether viper failed only because .env is absent; SetConfigFile
// surfaces that as a plain fs error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
