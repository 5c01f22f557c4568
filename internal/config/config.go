package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// KeyAPIBaseURL names the base URL setting; the environment variable is API_BASEURL.
	KeyAPIBaseURL = "api_baseurl"

	defaultEnvFile = "configs/.env"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL            string        `mapstructure:"api_baseurl"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	HTTPAddr               string        `mapstructure:"http_addr"`
	ShutdownTimeoutSeconds int64         `mapstructure:"shutdown_timeout_seconds"`
	ShutdownTimeout        time.Duration `mapstructure:"-"`
	SeedOnStart            bool          `mapstructure:"seed_on_start"`

	StorageType string `mapstructure:"storage_type"`
	BBoltPath   string `mapstructure:"bbolt_path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load(defaultEnvFile)
	return LoadFrom(newViper())
}

// LoadFrom unmarshals and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)

	if cfg.RequestTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must not be negative)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.ShutdownTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid shutdown_timeout_seconds (must be positive seconds)")
	}
	cfg.ShutdownTimeout = time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second

	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http_addr must not be empty")
	}

	return &cfg, nil
}

// NewViper returns a viper instance carrying the defaults and environment
// binding used by Load, for callers that layer flags on top.
func NewViper() *viper.Viper {
	_ = godotenv.Load(defaultEnvFile)
	return newViper()
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("app_name", "samvad-customers")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault(KeyAPIBaseURL, "http://localhost:8080")
	v.SetDefault("request_timeout_seconds", 10)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("shutdown_timeout_seconds", 10)
	v.SetDefault("seed_on_start", false)
	v.SetDefault("storage_type", "memory")
	v.SetDefault("bbolt_path", "./data/customers.db")
	v.SetDefault("database_url", "")

	v.AutomaticEnv()
	return v
}

// BaseURLFromEnv returns a resolver that reads the API base URL from v on
// every call, so environment changes are observed at request time.
func BaseURLFromEnv(v *viper.Viper) func() string {
	if v == nil {
		v = newViper()
	}
	return func() string {
		return strings.TrimSpace(v.GetString(KeyAPIBaseURL))
	}
}
