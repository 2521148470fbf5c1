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

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Booking       BookingConfig
	Availability  AvailabilityConfig
	Artifacts     ArtifactsConfig
	Notifications NotificationsConfig
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

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// BookingConfig carries the engine's tunable policy values. Everything the
// availability and booking paths treat as a constant is injectable here.
type BookingConfig struct {
	DefaultLookaheadDays int
	MaxLookaheadDays     int
	MinDurationFloorMin  int
	MaxDurationMin       int
	FollowUpMonthlyQuota int
	DefaultTimezone      string
}

// AvailabilityConfig governs the read-side window cache.
type AvailabilityConfig struct {
	CacheTTL     time.Duration
	ReadRetries  int
	CacheEnabled bool
}

// ArtifactsConfig controls calendar artifact storage and signed downloads.
type ArtifactsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// NotificationsConfig tunes the post-commit dispatch queue.
type NotificationsConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
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

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Booking = BookingConfig{
		DefaultLookaheadDays: v.GetInt("BOOKING_DEFAULT_LOOKAHEAD_DAYS"),
		MaxLookaheadDays:     v.GetInt("BOOKING_MAX_LOOKAHEAD_DAYS"),
		MinDurationFloorMin:  v.GetInt("BOOKING_MIN_DURATION_MIN"),
		MaxDurationMin:       v.GetInt("BOOKING_MAX_DURATION_MIN"),
		FollowUpMonthlyQuota: v.GetInt("BOOKING_FOLLOW_UP_MONTHLY_QUOTA"),
		DefaultTimezone:      v.GetString("BOOKING_DEFAULT_TIMEZONE"),
	}

	cfg.Availability = AvailabilityConfig{
		CacheTTL:     parseDuration(v.GetString("AVAILABILITY_CACHE_TTL"), 2*time.Minute),
		ReadRetries:  v.GetInt("AVAILABILITY_READ_RETRIES"),
		CacheEnabled: v.GetBool("AVAILABILITY_CACHE_ENABLED"),
	}

	cfg.Artifacts = ArtifactsConfig{
		StorageDir:      v.GetString("ARTIFACTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("ARTIFACTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("ARTIFACTS_SIGNED_URL_TTL"), 7*24*time.Hour),
	}

	cfg.Notifications = NotificationsConfig{
		Workers:    v.GetInt("NOTIFICATIONS_WORKERS"),
		BufferSize: v.GetInt("NOTIFICATIONS_BUFFER_SIZE"),
		MaxRetries: v.GetInt("NOTIFICATIONS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFICATIONS_RETRY_DELAY"), 5*time.Second),
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
	v.SetDefault("DB_NAME", "sma_meet")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("BOOKING_DEFAULT_LOOKAHEAD_DAYS", 21)
	v.SetDefault("BOOKING_MAX_LOOKAHEAD_DAYS", 35)
	v.SetDefault("BOOKING_MIN_DURATION_MIN", 15)
	v.SetDefault("BOOKING_MAX_DURATION_MIN", 240)
	v.SetDefault("BOOKING_FOLLOW_UP_MONTHLY_QUOTA", 1)
	v.SetDefault("BOOKING_DEFAULT_TIMEZONE", "Asia/Jakarta")

	v.SetDefault("AVAILABILITY_CACHE_TTL", "2m")
	v.SetDefault("AVAILABILITY_READ_RETRIES", 2)
	v.SetDefault("AVAILABILITY_CACHE_ENABLED", true)

	v.SetDefault("ARTIFACTS_STORAGE_DIR", "./artifacts")
	v.SetDefault("ARTIFACTS_SIGNED_URL_SECRET", "dev_artifacts_secret")
	v.SetDefault("ARTIFACTS_SIGNED_URL_TTL", "168h")

	v.SetDefault("NOTIFICATIONS_WORKERS", 2)
	v.SetDefault("NOTIFICATIONS_BUFFER_SIZE", 16)
	v.SetDefault("NOTIFICATIONS_MAX_RETRIES", 3)
	v.SetDefault("NOTIFICATIONS_RETRY_DELAY", "5s")
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
