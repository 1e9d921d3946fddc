package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment identifies where the client is running. It is resolved once
// at load time rather than re-derived from hostname checks on every
// client construction.
type Environment string

const (
	EnvLocal      Environment = "local"
	EnvStaging    Environment = "staging"
	EnvProduction Environment = "production"
)

// Default upstream endpoints used when nothing is configured.
const (
	DefaultProductionURL = "https://barber-server.dgohio.easypanel.host"
	DefaultLocalURL      = "http://localhost:3333"
)

// Config aggregates runtime configuration for the dashboard client.
type Config struct {
	App        AppConfig
	API        APIConfig
	Credential CredentialConfig
	Redis      RedisConfig
	Logger     LoggerConfig
}

// AppConfig controls gateway level behavior.
type AppConfig struct {
	Name    string
	Env     Environment
	Host    string
	Port    string
	Version string
}

// APIConfig holds upstream API endpoint values.
type APIConfig struct {
	ProductionURL         string
	LocalURL              string
	AllowOverride         bool
	RequestTimeoutSeconds int
	ProbeTimeoutSeconds   int
}

// CredentialConfig governs where and for how long the session token is kept.
type CredentialConfig struct {
	CookieName      string
	EmailKey        string
	OverrideKey     string
	FilePath        string
	DefaultTTLHours int
	RememberTTLDays int
	UseRedis        bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "barber-dashboard"),
			Env:     ParseEnvironment(getEnv("APP_ENV", "local")),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "3000"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		API: APIConfig{
			ProductionURL:         getEnv("API_URL", ""),
			LocalURL:              getEnv("API_URL_LOCAL", DefaultLocalURL),
			AllowOverride:         getEnvAsBool("API_ALLOW_OVERRIDE", false),
			RequestTimeoutSeconds: getEnvAsInt("API_REQUEST_TIMEOUT_SECONDS", 30),
			ProbeTimeoutSeconds:   getEnvAsInt("API_PROBE_TIMEOUT_SECONDS", 2),
		},
		Credential: CredentialConfig{
			CookieName:      getEnv("CREDENTIAL_COOKIE_NAME", "barber.token"),
			EmailKey:        getEnv("CREDENTIAL_EMAIL_KEY", "barber.email"),
			OverrideKey:     getEnv("CREDENTIAL_OVERRIDE_KEY", "barber.api_url"),
			FilePath:        getEnv("CREDENTIAL_FILE", defaultCredentialFile()),
			DefaultTTLHours: getEnvAsInt("CREDENTIAL_DEFAULT_TTL_HOURS", 24),
			RememberTTLDays: getEnvAsInt("CREDENTIAL_REMEMBER_TTL_DAYS", 30),
			UseRedis:        getEnvAsBool("CREDENTIAL_USE_REDIS", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address for the gateway.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured upstream request timeout.
func (c APIConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ProbeTimeout returns the short timeout used for backend liveness checks.
func (c APIConfig) ProbeTimeout() time.Duration {
	if c.ProbeTimeoutSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// DefaultTTL is the token lifetime when "remember me" is off.
func (c CredentialConfig) DefaultTTL() time.Duration {
	if c.DefaultTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.DefaultTTLHours) * time.Hour
}

// RememberTTL is the token lifetime when "remember me" is on.
func (c CredentialConfig) RememberTTL() time.Duration {
	if c.RememberTTLDays <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(c.RememberTTLDays) * 24 * time.Hour
}

// ParseEnvironment maps a raw env string onto the Environment enum,
// defaulting to local.
func ParseEnvironment(raw string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(raw))) {
	case EnvStaging:
		return EnvStaging
	case EnvProduction:
		return EnvProduction
	default:
		return EnvLocal
	}
}

func defaultCredentialFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".barber-dashboard", "credentials.json")
	}
	return filepath.Join(dir, "barber-dashboard", "credentials.json")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
