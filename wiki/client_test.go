package wiki

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient builds an initialized client pointing at a test server's
// /api.php.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &Config{
		BaseURL:   srv.URL + "/api.php",
		Timeout:   5 * time.Second,
		UserAgent: defaultUserAgent,
	}
	c := NewClient(cfg, testLogger())
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return c
}

func TestInitUsesAPIPathDirectly(t *testing.T) {
	cfg := &Config{
		BaseURL:   "https://en.wikipedia.org/w/api.php",
		Timeout:   5 * time.Second,
		UserAgent: defaultUserAgent,
	}
	c := NewClient(cfg, testLogger())
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if got := c.BaseURL(); got != "https://en.wikipedia.org/w/api.php" {
		t.Errorf("BaseURL() = %q, want the configured endpoint", got)
	}
}

func TestInitPrependsScheme(t *testing.T) {
	cfg := &Config{
		BaseURL:   "en.wikipedia.org/w/api.php",
		Timeout:   5 * time.Second,
		UserAgent: defaultUserAgent,
	}
	c := NewClient(cfg, testLogger())
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if got := c.BaseURL(); got != "https://en.wikipedia.org/w/api.php" {
		t.Errorf("BaseURL() = %q, want https prepended", got)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	before := c.BaseURL()
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if c.BaseURL() != before {
		t.Errorf("BaseURL changed on second Init: %q -> %q", before, c.BaseURL())
	}
}

func TestAPIGetRequiresInit(t *testing.T) {
	cfg := &Config{BaseURL: "example.org", Timeout: time.Second, UserAgent: defaultUserAgent}
	c := NewClient(cfg, testLogger())

	_, err := c.FetchPage(context.Background(), "Apple")
	if err == nil {
		t.Fatal("expected error before Init")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("error = %v, want mention of missing Init", err)
	}
}

func TestAPIGetSurfacesAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"code":"missingtitle","info":"The page you specified doesn't exist."}}`))
	}))

	_, err := c.FetchPage(context.Background(), "Nonexistent")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Code != "missingtitle" {
		t.Errorf("Code = %q, want missingtitle", apiErr.Code)
	}
}

func TestAPIGetSurfacesHTTPStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.FetchPage(context.Background(), "Apple")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unexpected status 500") {
		t.Errorf("error = %v, want unexpected status 500", err)
	}
}

func TestUserAgentHeader(t *testing.T) {
	var gotUA string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"parse":{"title":"Apple","wikitext":"x","headhtml":""}}`))
	}))

	if _, err := c.FetchPage(context.Background(), "Apple"); err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if gotUA != defaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, defaultUserAgent)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	c.setCache("k", "v", "page")
	if got, ok := c.getCached("k"); !ok || got.(string) != "v" {
		t.Fatalf("getCached = %v, %v; want v, true", got, ok)
	}

	// Force the entry to be expired.
	c.cache.Store("k", &cacheEntry{data: "v", expiresAt: time.Now().Add(-time.Second)})
	if _, ok := c.getCached("k"); ok {
		t.Error("expected expired entry to miss")
	}
}
