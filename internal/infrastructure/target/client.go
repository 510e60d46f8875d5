package target

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/logging"
	"github.com/pricescout/backend/internal/metrics"
)

const requestTimeout = 10 * time.Second

// Client handles communication with Target's RedSky API.
// Search never fails outward: every transport or payload failure is logged
// and degrades to an empty offer list.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	defaultStoreID string
	rateLimiter    *rate.Limiter
	logger         zerolog.Logger
}

// NewClient creates a new Target API client. defaultStoreID scopes pricing
// when no store was resolved for the request. requestsPerSecond bounds the
// outbound call rate; zero disables the limit.
func NewClient(baseURL, apiKey, defaultStoreID string, requestsPerSecond float64) *Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL:        baseURL,
		apiKey:         apiKey,
		defaultStoreID: defaultStoreID,
		rateLimiter:    rate.NewLimiter(limit, 5),
		logger:         logging.NewLogger("target"),
	}
}

// Store implements domain.StoreAdapter.
func (c *Client) Store() domain.Store {
	return domain.StoreTarget
}

// Search looks up offers for an item, scoped to the resolved store when one
// is present and to the configured default store otherwise.
func (c *Client) Search(ctx context.Context, item string, loc domain.Location) []domain.Offer {
	storeID := loc.StoreID
	if storeID == "" {
		storeID = c.defaultStoreID
	}

	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("keyword", item)
	params.Add("count", strconv.Itoa(maxOffers))
	params.Add("pricing_store_id", storeID)

	reqURL := fmt.Sprintf("%s/redsky_aggregations/v1/web/plp_search_v2?%s", c.baseURL, params.Encode())

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		metrics.AdapterRequests.WithLabelValues(string(domain.StoreTarget), "error").Inc()
		c.logger.Warn().Err(err).Str("item", item).Msg("search failed, returning no offers")
		return nil
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		metrics.AdapterRequests.WithLabelValues(string(domain.StoreTarget), "error").Inc()
		c.logger.Warn().Err(err).Str("item", item).Msg("malformed search payload, returning no offers")
		return nil
	}

	metrics.AdapterRequests.WithLabelValues(string(domain.StoreTarget), "ok").Inc()
	return mapOffers(searchResp.Data.Search.Products)
}

// nearbyStoresResponse is the shape of the store locator payload.
type nearbyStoresResponse struct {
	Data struct {
		NearbyStores struct {
			Stores []struct {
				StoreID string `json:"store_id"`
			} `json:"stores"`
		} `json:"nearby_stores"`
	} `json:"data"`
}

// ResolveStoreID implements domain.StoreLocator: resolves the nearest Target
// store from the request's postal code. Best-effort; returns no identifier
// when the postal code is missing or the lookup fails.
func (c *Client) ResolveStoreID(ctx context.Context, loc domain.Location) (string, bool) {
	if loc.PostalCode == "" {
		return "", false
	}

	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("zip", loc.PostalCode)
	params.Add("limit", "1")

	reqURL := fmt.Sprintf("%s/redsky_aggregations/v1/web/nearby_stores_v1?%s", c.baseURL, params.Encode())

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		metrics.LocationResolutions.WithLabelValues(string(domain.StoreTarget), "error").Inc()
		c.logger.Warn().Err(err).Msg("store resolution failed")
		return "", false
	}

	var storesResp nearbyStoresResponse
	if err := json.Unmarshal(body, &storesResp); err != nil || len(storesResp.Data.NearbyStores.Stores) == 0 {
		metrics.LocationResolutions.WithLabelValues(string(domain.StoreTarget), "error").Inc()
		c.logger.Warn().Msg("store resolution returned no usable stores")
		return "", false
	}

	metrics.LocationResolutions.WithLabelValues(string(domain.StoreTarget), "ok").Inc()
	return storesResp.Data.NearbyStores.Stores[0].StoreID, true
}

// doRequest executes an HTTP GET and returns the response body.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}

	return body, nil
}
