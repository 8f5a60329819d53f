package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig
	Backend       BackendConfig
	Session       SessionConfig
	Cache         CacheConfig
	Redis         RedisConfig
	PasswordReset PasswordResetConfig
	RateLimit     RateLimitConfig
}

type AppConfig struct {
	Port     string
	Env      string
	BaseURL  string
	Timezone string
	LogLevel string
}

type BackendConfig struct {
	URL                string
	Timeout            time.Duration
	ForgotPasswordPath string
	ResetPasswordPath  string
}

type SessionConfig struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

type CacheConfig struct {
	Driver   string // memory | redis
	Capacity int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type PasswordResetConfig struct {
	Mode     string // backend | mock
	Store    string // memory | redis
	TokenTTL time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverMemory = "memory"
	DriverRedis  = "redis"

	ResetModeBackend = "backend"
	ResetModeMock    = "mock"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")
	v.SetDefault("APP_TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("BACKEND_API_URL", "http://localhost:8080")
	v.SetDefault("BACKEND_TIMEOUT", "10s")
	v.SetDefault("FORGOT_PASSWORD_PATH", "/medlink/paciente/forgot-password")
	v.SetDefault("RESET_PASSWORD_PATH", "/medlink/paciente/reset-password")

	v.SetDefault("SESSION_COOKIE_NAME", "token")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("SESSION_MAX_AGE", "168h")

	v.SetDefault("CACHE_DRIVER", DriverMemory)
	v.SetDefault("CACHE_CAPACITY", 1000)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("PASSWORD_RESET_MODE", ResetModeBackend)
	v.SetDefault("PASSWORD_RESET_STORE", DriverMemory)
	v.SetDefault("PASSWORD_RESET_TTL", "15m")

	v.SetDefault("RATE_LIMIT_RPS", 1)
	v.SetDefault("RATE_LIMIT_BURST", 5)
}

// LoadConfig reads .env (when present) and the process environment.
// Environment variables win over the file.
func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// A missing .env is fine; the environment alone can configure the portal.
	_ = v.ReadInConfig()

	cfg := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      strings.ToLower(v.GetString("APP_ENV")),
			BaseURL:  strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
			Timezone: v.GetString("APP_TIMEZONE"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Backend: BackendConfig{
			URL:                strings.TrimRight(v.GetString("BACKEND_API_URL"), "/"),
			Timeout:            parseDuration(v.GetString("BACKEND_TIMEOUT"), 10*time.Second),
			ForgotPasswordPath: v.GetString("FORGOT_PASSWORD_PATH"),
			ResetPasswordPath:  v.GetString("RESET_PASSWORD_PATH"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			Secure:     v.GetBool("SESSION_SECURE"),
			MaxAge:     parseDuration(v.GetString("SESSION_MAX_AGE"), 7*24*time.Hour),
		},
		Cache: CacheConfig{
			Driver:   strings.ToLower(v.GetString("CACHE_DRIVER")),
			Capacity: v.GetInt("CACHE_CAPACITY"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		PasswordReset: PasswordResetConfig{
			Mode:     strings.ToLower(v.GetString("PASSWORD_RESET_MODE")),
			Store:    strings.ToLower(v.GetString("PASSWORD_RESET_STORE")),
			TokenTTL: parseDuration(v.GetString("PASSWORD_RESET_TTL"), 15*time.Minute),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("invalid CACHE_DRIVER %q", c.Cache.Driver)
	}
	switch c.PasswordReset.Store {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("invalid PASSWORD_RESET_STORE %q", c.PasswordReset.Store)
	}
	switch c.PasswordReset.Mode {
	case ResetModeBackend, ResetModeMock:
	default:
		return fmt.Errorf("invalid PASSWORD_RESET_MODE %q", c.PasswordReset.Mode)
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_API_URL is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return nil
}

// IsDev reports whether demo-only details (reset URLs, ids) may be exposed.
func (c *Config) IsDev() bool {
	return c.App.Env == EnvDevelopment
}

// NeedsRedis reports whether any component is configured to use Redis.
func (c *Config) NeedsRedis() bool {
	return c.Cache.Driver == DriverRedis || c.PasswordReset.Store == DriverRedis
}

// Location returns the time zone backend local date-times are read in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
