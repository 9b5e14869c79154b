// Package wiki is a read-only MediaWiki API client: endpoint discovery,
// page fetching with redirect resolution, and title search. It returns raw
// wikitext; rendering lives in the wikitext package.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/olgasafonova/wikifetch/metrics"
	"github.com/olgasafonova/wikifetch/tracing"
)

// cacheEntry holds cached data with expiration
type cacheEntry struct {
	data      any
	expiresAt time.Time
}

// Client handles communication with the MediaWiki API
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.RWMutex
	apiURL string // resolved api.php endpoint, set by Init

	// Response cache
	cache    sync.Map // key (string) -> *cacheEntry
	cacheTTL map[string]time.Duration
}

// NewClient creates a new MediaWiki API client. Call Init before using it.
func NewClient(config *Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	cacheTTL := map[string]time.Duration{
		"page":   5 * time.Minute,
		"search": 1 * time.Minute,
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// BaseURL returns the resolved api.php endpoint, or the empty string
// before Init has run.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiURL
}

func (c *Client) setBaseURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiURL = u
}

// getCached retrieves a cached value if it exists and hasn't expired
func (c *Client) getCached(key string) (any, bool) {
	if entry, ok := c.cache.Load(key); ok {
		ce := entry.(*cacheEntry)
		if time.Now().Before(ce.expiresAt) {
			metrics.CacheHits.Inc()
			return ce.data, true
		}
		c.cache.Delete(key)
	}
	metrics.CacheMisses.Inc()
	return nil, false
}

// setCache stores a value in the cache with the TTL configured for ttlKey
func (c *Client) setCache(key string, data any, ttlKey string) {
	ttl := 5 * time.Minute
	if t, ok := c.cacheTTL[ttlKey]; ok {
		ttl = t
	}
	c.cache.Store(key, &cacheEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// apiGet performs a GET against the API endpoint and decodes the JSON
// response into v. MediaWiki error payloads come back as *APIError.
func (c *Client) apiGet(ctx context.Context, params url.Values, v any) error {
	action := params.Get("action")
	start := time.Now()
	err := c.doAPIGet(ctx, params, v)
	metrics.RecordAPICall(action, time.Since(start).Seconds(), err == nil)
	return err
}

func (c *Client) doAPIGet(ctx context.Context, params url.Values, v any) error {
	endpoint := c.BaseURL()
	if endpoint == "" {
		return fmt.Errorf("client is not initialized: call Init first")
	}
	requestURL := endpoint + "?" + params.Encode()

	ctx, span := tracing.StartSpan(ctx, "wiki.api."+params.Get("action"))
	defer span.End()
	tracing.AddWikiAttributes(span, params.Get("action"), params.Get("page"))

	body, err := c.get(ctx, requestURL)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	// Error payloads are an object with an "error" key regardless of
	// action; opensearch responses are a bare array and skip this probe.
	if len(body) > 0 && body[0] == '{' {
		var probe struct {
			Error *struct {
				Code string `json:"code"`
				Info string `json:"info"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &probe); err == nil && probe.Error != nil {
			apiErr := &APIError{Code: probe.Error.Code, Info: probe.Error.Info, URL: requestURL}
			tracing.RecordError(span, apiErr)
			return apiErr
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding API response: %w", err)
	}
	return nil
}

// get fetches a URL and returns the response body. Non-2xx statuses are
// errors.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", requestURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, requestURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
