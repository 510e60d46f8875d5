package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache backend cannot be reached.
	// Unlike adapter failures this one is fatal for the request: masking it
	// would turn every request into a full double-fetch.
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrStoreUnavailable is returned inside adapters when a retail backend
	// request fails; it never crosses the adapter boundary.
	ErrStoreUnavailable = errors.New("store backend request failed")
)
