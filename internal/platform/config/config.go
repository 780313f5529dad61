// Package config loads tracker configuration from defaults, an optional config file,
// and TRACKER_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects the backend for each store.
type StorageConfig struct {
	// DictionaryBackend is memory or postgres.
	DictionaryBackend string `mapstructure:"dictionary_backend"`
	// ConfigBackend is memory, postgres or redis.
	ConfigBackend string `mapstructure:"config_backend"`
	// Timeout bounds every single store operation.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig configures the Postgres connection pool.
type DatabaseConfig struct {
	// Driver is the database/sql driver name: postgres (lib/pq) or pgx.
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig configures the go-redis client.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig configures the audit event consumer.
type KafkaConfig struct {
	Brokers     []string `mapstructure:"brokers"`
	Topic       string   `mapstructure:"topic"`
	GroupID     string   `mapstructure:"group_id"`
	CreateTopic bool     `mapstructure:"create_topic"`
	Partitions  int32    `mapstructure:"partitions"`
}

// AuditConfig configures the audit fan-out writer.
type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Namespace is the execution context namespace; events for any other namespace are dropped.
	Namespace string `mapstructure:"namespace"`
	// LogBackend is memory or postgres.
	LogBackend string `mapstructure:"log_backend"`
	// IndexBackend is memory or redis.
	IndexBackend string `mapstructure:"index_backend"`
	// BreakerThreshold consecutive failures open a sink's breaker for BreakerCooldown.
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SecurityConfig holds the optional admin token guarding mutating routes.
type SecurityConfig struct {
	AdminToken string `mapstructure:"admin_token"`
}

// New returns a viper instance with defaults and environment binding applied.
// Callers may bind command-line flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("storage.dictionary_backend", BackendMemory)
	v.SetDefault("storage.config_backend", BackendMemory)
	v.SetDefault("storage.timeout", 5*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "audit.events")
	v.SetDefault("kafka.group_id", "tracker-audit")
	v.SetDefault("kafka.create_topic", false)
	v.SetDefault("kafka.partitions", 3)

	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.namespace", "default")
	v.SetDefault("audit.log_backend", BackendMemory)
	v.SetDefault("audit.index_backend", BackendMemory)
	v.SetDefault("audit.breaker_threshold", 5)
	v.SetDefault("audit.breaker_cooldown", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("security.admin_token", "")
}

// Load reads the optional config file into v, decodes it and validates the result.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config load: read %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// NeedsPostgres reports whether any store is backed by Postgres.
func (c *Config) NeedsPostgres() bool {
	return c.Storage.DictionaryBackend == BackendPostgres ||
		c.Storage.ConfigBackend == BackendPostgres ||
		(c.Audit.Enabled && c.Audit.LogBackend == BackendPostgres)
}

// NeedsRedis reports whether any store is backed by Redis.
func (c *Config) NeedsRedis() bool {
	return c.Storage.ConfigBackend == BackendRedis ||
		(c.Audit.Enabled && c.Audit.IndexBackend == BackendRedis)
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "server.request_timeout must be positive")
	}

	// Storage validation
	if !oneOf(c.Storage.DictionaryBackend, BackendMemory, BackendPostgres) {
		errs = append(errs, fmt.Sprintf("storage.dictionary_backend %q must be memory or postgres", c.Storage.DictionaryBackend))
	}
	if !oneOf(c.Storage.ConfigBackend, BackendMemory, BackendPostgres, BackendRedis) {
		errs = append(errs, fmt.Sprintf("storage.config_backend %q must be memory, postgres or redis", c.Storage.ConfigBackend))
	}
	if c.Storage.Timeout <= 0 {
		errs = append(errs, "storage.timeout must be positive")
	}

	// Database validation
	if c.NeedsPostgres() && c.Database.URL == "" {
		errs = append(errs, "database.url is required when a postgres backend is selected")
	}
	if !oneOf(c.Database.Driver, "postgres", "pgx") {
		errs = append(errs, fmt.Sprintf("database.driver %q must be postgres or pgx", c.Database.Driver))
	}
	if c.Database.MaxOpenConns < c.Database.MaxIdleConns {
		errs = append(errs, fmt.Sprintf("database.max_open_conns (%d) must be >= database.max_idle_conns (%d)",
			c.Database.MaxOpenConns, c.Database.MaxIdleConns))
	}

	// Redis validation
	if c.NeedsRedis() && c.Redis.URL == "" {
		errs = append(errs, "redis.url is required when a redis backend is selected")
	}

	// Audit validation
	if c.Audit.Enabled {
		if c.Audit.Namespace == "" {
			errs = append(errs, "audit.namespace is required when audit is enabled")
		}
		if !oneOf(c.Audit.LogBackend, BackendMemory, BackendPostgres) {
			errs = append(errs, fmt.Sprintf("audit.log_backend %q must be memory or postgres", c.Audit.LogBackend))
		}
		if !oneOf(c.Audit.IndexBackend, BackendMemory, BackendRedis) {
			errs = append(errs, fmt.Sprintf("audit.index_backend %q must be memory or redis", c.Audit.IndexBackend))
		}
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, "kafka.brokers is required when audit is enabled")
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, "kafka.topic is required when audit is enabled")
		}
	}

	// Logging validation
	if !oneOf(strings.ToLower(c.Logging.Format), "text", "json") {
		errs = append(errs, fmt.Sprintf("logging.format %q must be text or json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
