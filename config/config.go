package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Walmart   WalmartConfig
	Target    TargetConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// WalmartConfig holds Walmart affiliate API configuration
type WalmartConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ConsumerID     string `mapstructure:"consumer_id"`
	KeyVersion     string `mapstructure:"key_version"`
	PrivateKeyFile string `mapstructure:"private_key_file"`
}

// TargetConfig holds Target RedSky API configuration
type TargetConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	DefaultStoreID string `mapstructure:"default_store_id"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// RateLimitConfig holds outbound rate limits in requests per second
type RateLimitConfig struct {
	Walmart float64 `mapstructure:"walmart"`
	Target  float64 `mapstructure:"target"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricescout/")

	v.SetEnvPrefix("PRICESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "120s")
	v.SetDefault("cache.redis_url", "")

	// Walmart defaults. Credentials default to empty so env-only values are
	// picked up by Unmarshal; missing credentials degrade the adapter rather
	// than failing startup.
	v.SetDefault("walmart.base_url", "https://developer.api.walmart.com")
	v.SetDefault("walmart.key_version", "1")
	v.SetDefault("walmart.consumer_id", "")
	v.SetDefault("walmart.private_key_file", "")

	// Target defaults
	v.SetDefault("target.base_url", "https://redsky.target.com")
	v.SetDefault("target.api_key", "")
	v.SetDefault("target.default_store_id", "3991")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Rate limit defaults (requests per second)
	v.SetDefault("ratelimit.walmart", 5.0)
	v.SetDefault("ratelimit.target", 5.0)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	return nil
}
