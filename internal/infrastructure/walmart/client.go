package walmart

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

// Client handles communication with the Walmart affiliate API.
// Search never fails outward: every transport, payload or auth failure is
// logged and degrades to an empty offer list.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	consumerID  string
	keyVersion  string
	signer      domain.CredentialProvider
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new Walmart API client. requestsPerSecond bounds the
// outbound call rate; zero disables the limit.
func NewClient(baseURL, consumerID, keyVersion string, signer domain.CredentialProvider, requestsPerSecond float64) *Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL:     baseURL,
		consumerID:  consumerID,
		keyVersion:  keyVersion,
		signer:      signer,
		rateLimiter: rate.NewLimiter(limit, 5),
		logger:      logging.NewLogger("walmart"),
	}
}

// Store implements domain.StoreAdapter.
func (c *Client) Store() domain.Store {
	return domain.StoreWalmart
}

// Search looks up offers for an item. When the request carried coordinates
// they are forwarded to the price search directly; the resolved store
// identifier in loc.StoreID is not consumed here (see DESIGN.md).
func (c *Client) Search(ctx context.Context, item string, loc domain.Location) []domain.Offer {
	params := url.Values{}
	params.Add("query", item)
	params.Add("numItems", strconv.Itoa(maxOffers))
	if loc.Latitude != nil && loc.Longitude != nil {
		params.Add("latitude", strconv.FormatFloat(*loc.Latitude, 'f', -1, 64))
		params.Add("longitude", strconv.FormatFloat(*loc.Longitude, 'f', -1, 64))
	}

	reqURL := fmt.Sprintf("%s/api-proxy/service/affil/product/v2/search?%s", c.baseURL, params.Encode())

	body, err := c.doSignedRequest(ctx, reqURL)
	if err != nil {
		metrics.AdapterRequests.WithLabelValues(string(domain.StoreWalmart), "error").Inc()
		c.logger.Warn().Err(err).Str("item", item).Msg("search failed, returning no offers")
		return nil
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		metrics.AdapterRequests.WithLabelValues(string(domain.StoreWalmart), "error").Inc()
		c.logger.Warn().Err(err).Str("item", item).Msg("malformed search payload, returning no offers")
		return nil
	}

	metrics.AdapterRequests.WithLabelValues(string(domain.StoreWalmart), "ok").Inc()
	return mapOffers(searchResp.Items)
}

// storesResponse is the shape of the store locator payload.
type storesResponse []struct {
	No int `json:"no"`
}

// ResolveStoreID implements domain.StoreLocator: resolves the nearest Walmart
// store number from the request coordinates. Best-effort; failures degrade to
// no identifier.
func (c *Client) ResolveStoreID(ctx context.Context, loc domain.Location) (string, bool) {
	if loc.Latitude == nil || loc.Longitude == nil {
		return "", false
	}

	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(*loc.Latitude, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(*loc.Longitude, 'f', -1, 64))

	reqURL := fmt.Sprintf("%s/api-proxy/service/affil/store/v2/stores?%s", c.baseURL, params.Encode())

	body, err := c.doSignedRequest(ctx, reqURL)
	if err != nil {
		metrics.LocationResolutions.WithLabelValues(string(domain.StoreWalmart), "error").Inc()
		c.logger.Warn().Err(err).Msg("store resolution failed")
		return "", false
	}

	var stores storesResponse
	if err := json.Unmarshal(body, &stores); err != nil || len(stores) == 0 {
		metrics.LocationResolutions.WithLabelValues(string(domain.StoreWalmart), "error").Inc()
		c.logger.Warn().Msg("store resolution returned no usable stores")
		return "", false
	}

	metrics.LocationResolutions.WithLabelValues(string(domain.StoreWalmart), "ok").Inc()
	return strconv.Itoa(stores[0].No), true
}

// doSignedRequest executes a GET with the affiliate auth headers and returns
// the response body.
func (c *Client) doSignedRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("signing credentials not configured")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	timestamp := time.Now().UnixMilli()
	signature, err := c.signer.Sign(c.consumerID, timestamp, c.keyVersion)
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	req.Header.Set("WM_CONSUMER.ID", c.consumerID)
	req.Header.Set("WM_CONSUMER.INTIMESTAMP", strconv.FormatInt(timestamp, 10))
	req.Header.Set("WM_SEC.KEY_VERSION", c.keyVersion)
	req.Header.Set("WM_SEC.AUTH_SIGNATURE", signature)
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
