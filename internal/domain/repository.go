package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching merged offer lists.
// Get returns ErrCacheMiss when the key is absent or expired; any other
// error means the cache backend itself is unavailable.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]Offer, error)
	Set(ctx context.Context, key string, offers []Offer, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// StoreAdapter performs one backend search and returns a bounded, normalized
// offer list. Search never fails outward: transport errors, malformed
// payloads and auth failures are contained inside the adapter and degrade to
// an empty list, so a single backend outage reduces the aggregate result
// instead of failing the whole request.
type StoreAdapter interface {
	Store() Store
	Search(ctx context.Context, item string, loc Location) []Offer
}

// StoreLocator is an optional capability of adapters that can resolve a
// backend-specific store identifier from the request's location. Best-effort:
// returns ("", false) on any failure, never an error.
type StoreLocator interface {
	ResolveStoreID(ctx context.Context, loc Location) (string, bool)
}

// CredentialProvider signs outbound requests for backends that require it.
// Opaque to the orchestrator; consumed only inside adapter request
// construction.
type CredentialProvider interface {
	Sign(consumerID string, timestamp int64, keyVersion string) (string, error)
}
