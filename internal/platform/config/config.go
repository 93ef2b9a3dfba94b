// Package config loads application configuration from a YAML file and
// environment variables. Priority: ENV > YAML > defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	Audit    AuditConfig    `yaml:"audit"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"SPEAROW_ADDR"             env-default:":8080"`
	MetricsAddr     string        `yaml:"metrics_addr"     env:"SPEAROW_METRICS_ADDR"     env-default:":9090"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SPEAROW_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SPEAROW_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SPEAROW_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SPEAROW_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// ProviderConfig holds remote breach provider settings.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url" env:"HIBP_BASE_URL"`
	APIKey  string `yaml:"api_key"  env:"HIBP_API_KEY"`
}

// RedisConfig holds the report cache store connection settings. An empty
// URL selects the in-memory store.
type RedisConfig struct {
	URL          string        `yaml:"url"            env:"REDIS_URL"`
	PoolSize     int           `yaml:"pool_size"      env:"REDIS_POOL_SIZE"      env-default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"REDIS_MIN_IDLE_CONNS" env-default:"2"`
	DialTimeout  time.Duration `yaml:"dial_timeout"   env:"REDIS_DIAL_TIMEOUT"   env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout"   env:"REDIS_READ_TIMEOUT"   env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout"  env:"REDIS_WRITE_TIMEOUT"  env-default:"3s"`
}

// DatabaseConfig holds PostgreSQL settings for the user directory. An
// empty DSN selects the in-memory store.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"               env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"         env:"DATABASE_MAX_CONNS"         env-default:"10"`
	MinConns        int32         `yaml:"min_conns"         env:"DATABASE_MIN_CONNS"         env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DATABASE_MAX_CONN_LIFETIME" env-default:"1h"`
}

// AuthConfig holds bearer-token verification settings.
type AuthConfig struct {
	JWTSigningKey string `yaml:"jwt_signing_key" env:"JWT_SIGNING_KEY" env-default:"dev-secret-key-change-in-production"`
}

// CacheConfig selects the report staleness policy: "none" trusts cached
// entries forever, "ttl" refetches entries older than TTL.
type CacheConfig struct {
	StalenessMode string        `yaml:"staleness_mode" env:"CACHE_STALENESS_MODE" env-default:"none"`
	TTL           time.Duration `yaml:"ttl"            env:"CACHE_TTL"            env-default:"24h"`
}

// AuditConfig holds the audit event sink settings. Empty brokers select
// the in-process store publisher.
type AuditConfig struct {
	KafkaBrokers []string `yaml:"kafka_brokers" env:"AUDIT_KAFKA_BROKERS"`
	KafkaTopic   string   `yaml:"kafka_topic"   env:"AUDIT_KAFKA_TOPIC" env-default:"spearow.audit"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configuration. The YAML file path comes from CONFIG_PATH
// (fallback "./config.yaml"); a missing default file means ENV + defaults
// only.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Cache.StalenessMode {
	case "", "none":
	case "ttl":
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when staleness_mode is %q", c.Cache.StalenessMode)
		}
	default:
		return fmt.Errorf("unknown cache.staleness_mode %q", c.Cache.StalenessMode)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}
