// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Session   SessionConfig   `koanf:"session"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Rules     RulesConfig     `koanf:"rules"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
}

// RedisConfig is optional. With an empty URL the CLI runs without a
// revocation list and throttles logins in process only.
type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	PrivateKeyPath string        `koanf:"private_key_path"`
	PublicKeyPath  string        `koanf:"public_key_path"`
	SessionExpire  time.Duration `koanf:"session_expire"`
	Issuer         string        `koanf:"issuer"`
	Audience       string        `koanf:"audience"`
}

type SessionConfig struct {
	TokenFile string `koanf:"token_file"`
}

type RateLimitConfig struct {
	LoginAttempts int           `koanf:"login_attempts"`
	Window        time.Duration `koanf:"window"`
	Burst         int           `koanf:"burst"`
}

type RulesConfig struct {
	LegacyClientOwnership bool `koanf:"legacy_client_ownership"`
}

// LogConfig drives two loggers. Diagnostics follow Level; audit events
// follow AuditLevel and go to AuditFile when set, otherwise to stderr.
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	AuditLevel string `koanf:"audit_level"`
	AuditFile  string `koanf:"audit_file"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// Load layers defaults, the optional YAML file and the environment, in that
// order. A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil &&
			!errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Session.TokenFile == "" {
		cfg.Session.TokenFile = DefaultTokenFile()
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Epic Events CRM",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"database.max_open_conns":    4,
		"database.max_idle_conns":    1,
		"database.conn_max_lifetime": "5m",
		"database.connect_timeout":   "5s",

		"redis.pool_size":      2,
		"redis.min_idle_conns": 0,

		"jwt.session_expire":   "1h",
		"jwt.issuer":           "epic-events",
		"jwt.audience":         "epic-events-cli",
		"jwt.private_key_path": "keys/private.pem",
		"jwt.public_key_path":  "keys/public.pem",

		"rate_limit.login_attempts": 5,
		"rate_limit.window":         "15m",
		"rate_limit.burst":          5,

		"rules.legacy_client_ownership": false,

		"log.level":       "warn",
		"log.format":      "text",
		"log.audit_level": "info",
		"log.audit_file":  "",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  1.0,
		"otel.service_name": "epic-events",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"LOG_AUDIT_LEVEL":             "log.audit_level",
	"LOG_AUDIT_FILE":              "log.audit_file",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":         "jwt.public_key_path",
	"JWT_SESSION_EXPIRE":          "jwt.session_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"EPIC_TOKEN_FILE":             "session.token_file",
	"LOGIN_RATE_LIMIT_ATTEMPTS":   "rate_limit.login_attempts",
	"LOGIN_RATE_LIMIT_WINDOW":     "rate_limit.window",
	"LEGACY_CLIENT_OWNERSHIP":     "rules.legacy_client_ownership",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"RELEASE_VERSION":             "app.version",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

// DefaultTokenFile resolves $XDG_CONFIG_HOME/epic/token, falling back to
// ~/.config/epic/token.
func DefaultTokenFile() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "epic-token")
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "epic", "token")
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.PrivateKeyPath == "" {
		return fmt.Errorf("JWT_PRIVATE_KEY_PATH is required")
	}

	if c.JWT.PublicKeyPath == "" {
		return fmt.Errorf("JWT_PUBLIC_KEY_PATH is required")
	}

	if c.JWT.SessionExpire <= 0 {
		return fmt.Errorf("jwt.session_expire must be positive")
	}

	if c.RateLimit.LoginAttempts <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.login_attempts and rate_limit.window must be positive")
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
