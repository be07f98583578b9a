package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SessionBackendMemory   = "memory"
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"
)

type Config struct {
	Addr               string
	Environment        string
	HRAPIBaseURL       string
	HRAPITimeout       time.Duration
	TenantCode         string
	HRMHandoffDelay    time.Duration
	SessionSecret      string
	SessionTTL         time.Duration
	SessionBackend     string
	SweepInterval      time.Duration
	RedisAddr          string
	RedisPassword      string
	DatabaseURL        string
	RunMigrations      bool
	MaxBodyBytes       int64
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	MetricsEnabled     bool
	LogLevel           string
	ShowDemoLogins     bool
}

var defaults = map[string]any{
	"APP_ADDR":              ":8080",
	"APP_ENV":               "development",
	"HR_API_BASE_URL":       "",
	"HR_API_TIMEOUT":        "0s",
	"TENANT_CODE":           "",
	"HRM_HANDOFF_DELAY":     "800ms",
	"SESSION_SECRET":        "",
	"SESSION_TTL":           "8h",
	"SESSION_BACKEND":       SessionBackendMemory,
	"SWEEP_INTERVAL":        "5m",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"DATABASE_URL":          "",
	"RUN_MIGRATIONS":        true,
	"MAX_BODY_BYTES":        1048576,
	"RATE_LIMIT_PER_MINUTE": 60,
	"CORS_ALLOWED_ORIGINS":  "",
	"METRICS_ENABLED":       true,
	"LOG_LEVEL":             "info",
	"SHOW_DEMO_LOGINS":      false,
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("load .env failed", "err", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return Config{
		Addr:               v.GetString("APP_ADDR"),
		Environment:        v.GetString("APP_ENV"),
		HRAPIBaseURL:       strings.TrimRight(v.GetString("HR_API_BASE_URL"), "/"),
		HRAPITimeout:       v.GetDuration("HR_API_TIMEOUT"),
		TenantCode:         v.GetString("TENANT_CODE"),
		HRMHandoffDelay:    v.GetDuration("HRM_HANDOFF_DELAY"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		SessionBackend:     strings.ToLower(strings.TrimSpace(v.GetString("SESSION_BACKEND"))),
		SweepInterval:      v.GetDuration("SWEEP_INTERVAL"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RunMigrations:      v.GetBool("RUN_MIGRATIONS"),
		MaxBodyBytes:       v.GetInt64("MAX_BODY_BYTES"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		ShowDemoLogins:     v.GetBool("SHOW_DEMO_LOGINS"),
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HRAPIBaseURL) == "" {
		return fmt.Errorf("HR_API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.HRAPIBaseURL, "http://") && !strings.HasPrefix(c.HRAPIBaseURL, "https://") {
		return fmt.Errorf("HR_API_BASE_URL must be an http(s) URL")
	}
	if c.IsProduction() && len(strings.TrimSpace(c.SessionSecret)) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR must be set when SESSION_BACKEND is redis")
		}
	case SessionBackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL must be set when SESSION_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of memory, redis, postgres")
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("SWEEP_INTERVAL must not be negative")
	}
	if c.HRMHandoffDelay < 0 {
		return fmt.Errorf("HRM_HANDOFF_DELAY must not be negative")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
