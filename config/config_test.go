package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("PRICESCOUT_SERVER_PORT")
		os.Unsetenv("PRICESCOUT_SERVER_ENVIRONMENT")
		os.Unsetenv("PRICESCOUT_CACHE_TYPE")
		os.Unsetenv("PRICESCOUT_CACHE_REDIS_URL")
		os.Unsetenv("PRICESCOUT_CACHE_TTL")
		os.Unsetenv("PRICESCOUT_WALMART_CONSUMER_ID")
		os.Unsetenv("PRICESCOUT_TARGET_API_KEY")
		os.Unsetenv("PRICESCOUT_TARGET_DEFAULT_STORE_ID")
		os.Unsetenv("PRICESCOUT_LOG_LEVEL")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 120*time.Second {
			t.Errorf("Cache.TTL = %v, want 120s", cfg.Cache.TTL)
		}
		if cfg.Walmart.BaseURL != "https://developer.api.walmart.com" {
			t.Errorf("Walmart.BaseURL = %s, want default", cfg.Walmart.BaseURL)
		}
		if cfg.Target.DefaultStoreID != "3991" {
			t.Errorf("Target.DefaultStoreID = %s, want 3991", cfg.Target.DefaultStoreID)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICESCOUT_SERVER_PORT", "9090")
		os.Setenv("PRICESCOUT_SERVER_ENVIRONMENT", "production")
		os.Setenv("PRICESCOUT_CACHE_TYPE", "redis")
		os.Setenv("PRICESCOUT_CACHE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("PRICESCOUT_CACHE_TTL", "60s")
		os.Setenv("PRICESCOUT_TARGET_API_KEY", "custom-key")
		os.Setenv("PRICESCOUT_LOG_LEVEL", "debug")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != 60*time.Second {
			t.Errorf("Cache.TTL = %v, want 60s", cfg.Cache.TTL)
		}
		if cfg.Target.APIKey != "custom-key" {
			t.Errorf("Target.APIKey = %s, want custom-key", cfg.Target.APIKey)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("rejects unknown cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICESCOUT_CACHE_TYPE", "memcached")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want invalid configuration error")
		}
	})

	t.Run("rejects redis cache without URL", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICESCOUT_CACHE_TYPE", "redis")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want invalid configuration error")
		}
	})
}
