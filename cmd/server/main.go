package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricescout/backend/config"
	httpDelivery "github.com/pricescout/backend/internal/delivery/http"
	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/infrastructure/cache"
	"github.com/pricescout/backend/internal/infrastructure/target"
	"github.com/pricescout/backend/internal/infrastructure/walmart"
	"github.com/pricescout/backend/internal/logging"
	"github.com/pricescout/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("starting pricescout backend")

	// Cache backend: the only shared mutable resource. Initialized here and
	// torn down on shutdown.
	var offerCache domain.CacheRepository
	var redisCache *cache.RedisCache
	if cfg.Cache.Type == "redis" {
		redisCache, err = cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize redis cache")
		}
		offerCache = redisCache
	} else {
		offerCache = cache.NewMemoryCache()
	}

	walmartClient := newWalmartClient(cfg, logger)
	targetClient := target.NewClient(
		cfg.Target.BaseURL,
		cfg.Target.APIKey,
		cfg.Target.DefaultStoreID,
		cfg.RateLimit.Target,
	)
	if cfg.Target.APIKey == "" {
		logger.Warn().Msg("Target API key not configured - Target searches will return no offers")
	}

	// Walmart-then-Target: merge order on price ties follows registration order
	searchService := usecase.NewSearchService(
		offerCache,
		[]domain.StoreAdapter{walmartClient, targetClient},
		usecase.SearchServiceConfig{
			CacheTTL: cfg.Cache.TTL,
			Logger:   logging.NewLogger("search"),
		},
	)

	handler := httpDelivery.NewHandler(searchService)
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close redis connection")
		}
	}

	logger.Info().Msg("stopped")
}

// newWalmartClient builds the Walmart adapter. A missing or unreadable
// signing key is not fatal: the adapter starts without credentials and its
// searches degrade to empty results.
func newWalmartClient(cfg *config.Config, logger zerolog.Logger) *walmart.Client {
	var signer domain.CredentialProvider
	if cfg.Walmart.ConsumerID == "" || cfg.Walmart.PrivateKeyFile == "" {
		logger.Warn().Msg("Walmart credentials not configured - Walmart searches will return no offers")
	} else {
		keyPEM, err := os.ReadFile(cfg.Walmart.PrivateKeyFile)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to read Walmart private key - Walmart searches will return no offers")
		} else if s, err := walmart.NewSigner(keyPEM); err != nil {
			logger.Warn().Err(err).Msg("failed to parse Walmart private key - Walmart searches will return no offers")
		} else {
			signer = s
		}
	}

	return walmart.NewClient(
		cfg.Walmart.BaseURL,
		cfg.Walmart.ConsumerID,
		cfg.Walmart.KeyVersion,
		signer,
		cfg.RateLimit.Walmart,
	)
}
