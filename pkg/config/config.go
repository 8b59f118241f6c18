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

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Tickets  TicketsConfig
	Recovery RecoveryConfig
	Summary  SummaryConfig
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

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TicketsConfig governs the justification ticket rules.
type TicketsConfig struct {
	MonthlyCap int
	SLAWindow  time.Duration
}

// RecoveryConfig tunes recovery hour accrual.
type RecoveryConfig struct {
	DefaultTargetHours int
	MaxSessionHours    float64
}

// SummaryConfig governs punctuality summary caching and alert payloads.
type SummaryConfig struct {
	CacheEnabled     bool
	CacheTTL         time.Duration
	AlertPreviewSize int
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
		if !errors.As(err, &notFound) && !isFileMissing(err) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:       v.GetString("APP_ENV"),
		Port:      v.GetInt("APP_PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitAndTrim(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Tickets: TicketsConfig{
			MonthlyCap: v.GetInt("TICKETS_MONTHLY_CAP"),
			SLAWindow:  v.GetDuration("TICKETS_SLA_WINDOW"),
		},
		Recovery: RecoveryConfig{
			DefaultTargetHours: v.GetInt("RECOVERY_DEFAULT_TARGET_HOURS"),
			MaxSessionHours:    v.GetFloat64("RECOVERY_MAX_SESSION_HOURS"),
		},
		Summary: SummaryConfig{
			CacheEnabled:     v.GetBool("SUMMARY_CACHE_ENABLED"),
			CacheTTL:         v.GetDuration("SUMMARY_CACHE_TTL"),
			AlertPreviewSize: v.GetInt("SUMMARY_ALERT_PREVIEW_SIZE"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "puntualidad")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TICKETS_MONTHLY_CAP", 3)
	v.SetDefault("TICKETS_SLA_WINDOW", 24*time.Hour)

	v.SetDefault("RECOVERY_DEFAULT_TARGET_HOURS", 6)
	v.SetDefault("RECOVERY_MAX_SESSION_HOURS", 12.0)

	v.SetDefault("SUMMARY_CACHE_ENABLED", true)
	v.SetDefault("SUMMARY_CACHE_TTL", 5*time.Minute)
	v.SetDefault("SUMMARY_ALERT_PREVIEW_SIZE", 5)
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isFileMissing(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file")
}
