package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"mockpay/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DataDir  string         `mapstructure:"data_dir"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Fault    FaultConfig    `mapstructure:"fault"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	PaystackPort    int    `mapstructure:"paystack_port"`
	FlutterwavePort int    `mapstructure:"flutterwave_port"`
	Mode            string `mapstructure:"mode"` // debug, release, test
	FrontendURL     string `mapstructure:"frontend_url"`
}

// PaystackAddr returns the listen address of the Paystack mock.
func (s ServerConfig) PaystackAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.PaystackPort)
}

// FlutterwaveAddr returns the listen address of the Flutterwave mock.
func (s ServerConfig) FlutterwaveAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.FlutterwavePort)
}

// WebhookConfig holds the default delivery policy and the fallback target.
type WebhookConfig struct {
	DefaultURL     string        `mapstructure:"default_url"`
	DelayMs        int           `mapstructure:"delay_ms"`
	RetryCount     int           `mapstructure:"retry_count"`
	RetryDelayMs   int           `mapstructure:"retry_delay_ms"`
	Duplicate      bool          `mapstructure:"duplicate"`
	Drop           bool          `mapstructure:"drop"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`

	// PaystackSecret keys the x-paystack-signature HMAC. Empty disables it.
	PaystackSecret string `mapstructure:"paystack_secret"`
	// FlutterwaveHash is sent verbatim as verif-hash. Empty disables it.
	FlutterwaveHash string `mapstructure:"flutterwave_hash"`
}

// FaultConfig tunes how long simulated faults take to surface.
type FaultConfig struct {
	TimeoutDelay time.Duration `mapstructure:"timeout_delay"`
	DropDelay    time.Duration `mapstructure:"drop_delay"`
}

// StorageConfig selects the storage backends.
type StorageConfig struct {
	Driver         string `mapstructure:"driver"`          // file, memory, postgres
	SettingsDriver string `mapstructure:"settings_driver"` // "" (same as driver), memory, redis
}

// SettingsBackend resolves which backend holds the control-plane settings.
func (s StorageConfig) SettingsBackend() string {
	if s.SettingsDriver == "" {
		return s.Driver
	}
	return s.SettingsDriver
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// RuntimeFile is where the CLI records the detached server's pid.
func (c *Config) RuntimeFile() string {
	return filepath.Join(filepath.Dir(c.DataDir), "runtime.json")
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: MOCKPAY_.
// Nested keys use underscore: MOCKPAY_WEBHOOK_DELAY_MS, MOCKPAY_SERVER_PAYSTACK_PORT, etc.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.paystack_port", 4010)
	v.SetDefault("server.flutterwave_port", 4020)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.frontend_url", "http://localhost:5173")
	v.SetDefault("data_dir", filepath.Join(".mockpay", "data"))
	v.SetDefault("webhook.default_url", "")
	v.SetDefault("webhook.delay_ms", 1500)
	v.SetDefault("webhook.retry_count", 0)
	v.SetDefault("webhook.retry_delay_ms", 2000)
	v.SetDefault("webhook.duplicate", false)
	v.SetDefault("webhook.drop", false)
	v.SetDefault("webhook.attempt_timeout", "10s")
	v.SetDefault("webhook.paystack_secret", "sk_test_mockpay")
	v.SetDefault("webhook.flutterwave_hash", "mockpay_secret_hash")
	v.SetDefault("fault.timeout_delay", "15s")
	v.SetDefault("fault.drop_delay", "50ms")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.settings_driver", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "mockpay")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: MOCKPAY_WEBHOOK_DELAY_MS -> webhook.delay_ms
	v.SetEnvPrefix("MOCKPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported server.mode %q", c.Server.Mode)
	}
	switch c.Storage.Driver {
	case "file", "memory", "postgres":
	default:
		return fmt.Errorf("unsupported storage.driver %q", c.Storage.Driver)
	}
	switch c.Storage.SettingsBackend() {
	case "file", "memory", "postgres", "redis":
	default:
		return fmt.Errorf("unsupported storage.settings_driver %q", c.Storage.SettingsDriver)
	}
	if b := c.Storage.SettingsBackend(); (b == "postgres" || b == "file") && c.Storage.Driver != b {
		return fmt.Errorf("storage.settings_driver %s requires storage.driver %s", b, b)
	}
	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("unsupported log.level %q", c.Log.Level)
	}
	if c.Webhook.DelayMs < 0 || c.Webhook.RetryCount < 0 || c.Webhook.RetryDelayMs < 0 {
		return fmt.Errorf("webhook delay, retry count and retry delay must be non-negative")
	}
	return nil
}
