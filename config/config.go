// Package config loads the storefront server configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sicko7947/foodcart"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
)

const (
	// EnvConfigPath points at an explicit config file and skips the search.
	EnvConfigPath = "FOODCART_CONFIG"

	defaultConfigDirName  = ".foodcart"
	defaultConfigFileName = "config.yaml"
	defaultAddress        = ":3000"
	defaultLogLevel       = "info"
	defaultTableName      = "foodcart"
	defaultRegion         = "us-east-1"
	defaultRedisAddr      = "localhost:6379"
)

// Config holds the server configuration.
type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"` // debug, info, warn, error
	} `yaml:"log"`

	Storage struct {
		Backend   string `yaml:"backend"`   // memory, dynamodb or redis
		Namespace string `yaml:"namespace"` // prefix for every storage key

		Retry struct {
			MaxRetries *int          `yaml:"max_retries"`
			Delay      time.Duration `yaml:"delay"`
			Backoff    string        `yaml:"backoff"` // LINEAR, EXPONENTIAL or NONE
			Timeout    time.Duration `yaml:"timeout"` // per attempt
		} `yaml:"retry"`
	} `yaml:"storage"`

	DynamoDB struct {
		Table    string        `yaml:"table"`
		Region   string        `yaml:"region"`
		Endpoint string        `yaml:"endpoint,omitempty"` // e.g. http://localhost:8000 for DynamoDB Local
		TTL      time.Duration `yaml:"ttl,omitempty"`
	} `yaml:"dynamodb"`

	Redis struct {
		Addr       string        `yaml:"addr"`
		Password   string        `yaml:"password,omitempty"`
		DB         int           `yaml:"db"`
		KeyPrefix  string        `yaml:"key_prefix,omitempty"`
		Expiration time.Duration `yaml:"expiration,omitempty"`
	} `yaml:"redis"`

	Cart struct {
		DeliveryFee string `yaml:"delivery_fee"` // decimal string
	} `yaml:"cart"`

	Account struct {
		MinPasswordLength int `yaml:"min_password_length"`
		HashCost          int `yaml:"hash_cost"`
	} `yaml:"account"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `yaml:"-"`
}

// Load reads the configuration.
// Priority: $FOODCART_CONFIG, ./config.yaml, ~/.foodcart/config.yaml, defaults.
func Load() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		cfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	candidates := []string{defaultConfigFileName}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, defaultConfigDirName, defaultConfigFileName))
	}

	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads, defaults and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config from %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills every unset field.
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultAddress
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 5 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendMemory
	}
	if cfg.Storage.Retry.MaxRetries == nil {
		retries := foodcart.DefaultRetryConfig.MaxRetries
		cfg.Storage.Retry.MaxRetries = &retries
	}
	if cfg.Storage.Retry.Delay == 0 {
		cfg.Storage.Retry.Delay = time.Duration(foodcart.DefaultRetryConfig.RetryDelayMs) * time.Millisecond
	}
	if cfg.Storage.Retry.Backoff == "" {
		cfg.Storage.Retry.Backoff = string(foodcart.DefaultRetryConfig.RetryBackoff)
	}
	if cfg.Storage.Retry.Timeout == 0 {
		cfg.Storage.Retry.Timeout = time.Duration(foodcart.DefaultRetryConfig.TimeoutSeconds) * time.Second
	}
	if cfg.DynamoDB.Table == "" {
		cfg.DynamoDB.Table = defaultTableName
	}
	if cfg.DynamoDB.Region == "" {
		cfg.DynamoDB.Region = defaultRegion
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = defaultRedisAddr
	}
	if cfg.Cart.DeliveryFee == "" {
		cfg.Cart.DeliveryFee = foodcart.DefaultDeliveryFee.String()
	}
	if cfg.Account.MinPasswordLength == 0 {
		cfg.Account.MinPasswordLength = foodcart.DefaultAccountConfig.MinPasswordLength
	}
	if cfg.Account.HashCost == 0 {
		cfg.Account.HashCost = foodcart.DefaultAccountConfig.HashCost
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendDynamoDB, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if r := c.Storage.Retry.MaxRetries; r != nil && (*r < 0 || *r > 10) {
		return fmt.Errorf("max retries must be between 0 and 10, got %d", *r)
	}
	switch foodcart.BackoffStrategy(strings.ToUpper(c.Storage.Retry.Backoff)) {
	case foodcart.BackoffLinear, foodcart.BackoffExponential, foodcart.BackoffNone:
	default:
		return fmt.Errorf("unknown backoff strategy %q", c.Storage.Retry.Backoff)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	fee, err := decimal.NewFromString(c.Cart.DeliveryFee)
	if err != nil {
		return fmt.Errorf("invalid delivery fee %q: %w", c.Cart.DeliveryFee, err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("delivery fee cannot be negative: %s", fee)
	}

	if c.Account.MinPasswordLength < 1 {
		return fmt.Errorf("min password length must be positive, got %d", c.Account.MinPasswordLength)
	}
	if c.Account.HashCost < 4 || c.Account.HashCost > 31 {
		return fmt.Errorf("hash cost must be between 4 and 31, got %d", c.Account.HashCost)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout cannot be negative")
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Keys returns the storage key layout.
func (c *Config) Keys() foodcart.Keys {
	return foodcart.Keys{Namespace: c.Storage.Namespace}
}

// CartConfig builds the cart store configuration.
func (c *Config) CartConfig() foodcart.CartConfig {
	fee, err := decimal.NewFromString(c.Cart.DeliveryFee)
	if err != nil {
		fee = foodcart.DefaultDeliveryFee
	}
	return foodcart.CartConfig{
		DeliveryFee: fee,
		Keys:        c.Keys(),
	}
}

// RetryConfig builds the storage retry policy.
func (c *Config) RetryConfig() foodcart.RetryConfig {
	retries := foodcart.DefaultRetryConfig.MaxRetries
	if c.Storage.Retry.MaxRetries != nil {
		retries = *c.Storage.Retry.MaxRetries
	}
	return foodcart.RetryConfig{
		MaxRetries:     retries,
		RetryDelayMs:   int(c.Storage.Retry.Delay.Milliseconds()),
		RetryBackoff:   foodcart.BackoffStrategy(strings.ToUpper(c.Storage.Retry.Backoff)),
		TimeoutSeconds: int(c.Storage.Retry.Timeout.Seconds()),
	}
}

// AccountConfig builds the account service configuration.
func (c *Config) AccountConfig() foodcart.AccountConfig {
	return foodcart.AccountConfig{
		MinPasswordLength: c.Account.MinPasswordLength,
		HashCost:          c.Account.HashCost,
		Keys:              c.Keys(),
	}
}
