package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/metrics"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// SearchService orchestrates a product search across all registered store
// adapters: cache lookup, optional location resolution, concurrent backend
// fan-out, merge/sort and cache population.
type SearchService struct {
	cache    domain.CacheRepository
	adapters []domain.StoreAdapter
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// adapterOutcome is the settled result of one fan-out branch. Adapters
// contain their own failures, so a branch always settles with a (possibly
// empty) offer list; the join over branches never fails.
type adapterOutcome struct {
	store  domain.Store
	offers []domain.Offer
}

// NewSearchService creates a search service. Adapter registration order is
// significant: merged offers keep that order on price ties.
func NewSearchService(
	cache domain.CacheRepository,
	adapters []domain.StoreAdapter,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 120 * time.Second
	}

	return &SearchService{
		cache:    cache,
		adapters: adapters,
		cacheTTL: cacheTTL,
		logger:   config.Logger,
	}
}

// Search runs the full pipeline for one validated request.
// Flow: cache lookup -> location resolution -> backend fan-out -> merge/sort
// -> cache -> return. Per-store failures are absorbed upstream; the only
// errors returned here are ErrInvalidRequest and ErrCacheUnavailable.
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) ([]domain.Offer, error) {
	if request == nil || request.Item == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := CacheKey(request)

	cached, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		// Served exactly as stored: no re-sort, no re-filter.
		s.logger.Debug().Str("key", cacheKey).Int("offers", len(cached)).Msg("cache hit")
		return cached, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	storeIDs := s.resolveLocations(ctx, request)

	merged := s.fetchAll(ctx, request, storeIDs)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Price < merged[j].Price
	})

	// Cached unconditionally: a valid query with no matches is itself a
	// cacheable answer.
	if err := s.cache.Set(ctx, cacheKey, merged, s.cacheTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return merged, nil
}

// resolveLocations concurrently resolves a backend-specific store identifier
// for every adapter that supports it. Runs only when the request carries
// coordinates. Each resolution is best-effort and independent; a failed
// branch simply leaves no identifier, and downstream adapters fall back to
// their defaults.
func (s *SearchService) resolveLocations(ctx context.Context, request *domain.SearchRequest) map[domain.Store]string {
	storeIDs := make(map[domain.Store]string, len(s.adapters))
	if !request.HasCoordinates() {
		return storeIDs
	}

	loc := domain.Location{
		Latitude:   request.Latitude,
		Longitude:  request.Longitude,
		PostalCode: request.PostalCode,
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, adapter := range s.adapters {
		locator, ok := adapter.(domain.StoreLocator)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(store domain.Store, locator domain.StoreLocator) {
			defer wg.Done()
			if id, ok := locator.ResolveStoreID(ctx, loc); ok {
				mu.Lock()
				storeIDs[store] = id
				mu.Unlock()
			}
		}(adapter.Store(), locator)
	}
	wg.Wait()

	return storeIDs
}

// fetchAll fans out to every adapter concurrently and joins on all of them
// settling. This is a barrier, not a race: a request is never served from
// only the faster backend, and a failing backend never blocks or cancels the
// others. Results keep adapter registration order so the later stable sort
// breaks price ties deterministically.
func (s *SearchService) fetchAll(ctx context.Context, request *domain.SearchRequest, storeIDs map[domain.Store]string) []domain.Offer {
	outcomes := make([]adapterOutcome, len(s.adapters))

	var wg sync.WaitGroup
	for i, adapter := range s.adapters {
		wg.Add(1)
		go func(i int, adapter domain.StoreAdapter) {
			defer wg.Done()
			loc := domain.Location{
				Latitude:   request.Latitude,
				Longitude:  request.Longitude,
				PostalCode: request.PostalCode,
				StoreID:    storeIDs[adapter.Store()],
			}
			outcomes[i] = adapterOutcome{
				store:  adapter.Store(),
				offers: adapter.Search(ctx, request.Item, loc),
			}
		}(i, adapter)
	}
	wg.Wait()

	merged := make([]domain.Offer, 0)
	for _, outcome := range outcomes {
		metrics.AdapterOffers.WithLabelValues(string(outcome.store)).Add(float64(len(outcome.offers)))
		merged = append(merged, outcome.offers...)
	}

	return merged
}

// CacheKey derives the deterministic cache key for a validated request.
// Format: "search:{item}:{lat}:{lon}:{zip}" with the item lower-cased and
// trimmed and "-" standing in for absent fields. Requests that normalize to
// the same key are identical for caching purposes.
func CacheKey(request *domain.SearchRequest) string {
	parts := []string{
		"search",
		strings.ToLower(strings.TrimSpace(request.Item)),
		formatCoordinate(request.Latitude),
		formatCoordinate(request.Longitude),
	}
	if request.PostalCode != "" {
		parts = append(parts, request.PostalCode)
	} else {
		parts = append(parts, "-")
	}
	return strings.Join(parts, ":")
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
