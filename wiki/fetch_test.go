package wiki

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func parseHandler(t *testing.T, title, wikitext, headHTML string, hits *int) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		q := r.URL.Query()
		if q.Get("action") != "parse" {
			t.Errorf("action = %q, want parse", q.Get("action"))
		}
		if q.Get("redirects") != "1" {
			t.Errorf("redirects = %q, want 1", q.Get("redirects"))
		}
		if q.Get("prop") != "wikitext|headhtml" {
			t.Errorf("prop = %q, want wikitext|headhtml", q.Get("prop"))
		}
		resp := map[string]any{
			"parse": map[string]any{
				"title":    title,
				"wikitext": wikitext,
				"headhtml": headHTML,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func TestFetchPage(t *testing.T) {
	head := `<head><link rel="canonical" href="https://en.wikipedia.org/wiki/Apple"/></head>`
	c := newTestClient(t, parseHandler(t, "Apple", "An '''apple''' is a fruit.", head, nil))

	page, err := c.FetchPage(context.Background(), "apple")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if page.Title != "Apple" {
		t.Errorf("Title = %q, want Apple", page.Title)
	}
	if page.Wikitext != "An '''apple''' is a fruit." {
		t.Errorf("Wikitext = %q", page.Wikitext)
	}
	if page.URL != "https://en.wikipedia.org/wiki/Apple" {
		t.Errorf("URL = %q, want canonical link", page.URL)
	}
}

func TestFetchPageOpenGraphURL(t *testing.T) {
	head := `<head><meta property="og:url" content="https://terraria.wiki.gg/wiki/Zenith"/></head>`
	c := newTestClient(t, parseHandler(t, "Zenith", "text", head, nil))

	page, err := c.FetchPage(context.Background(), "Zenith")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if page.URL != "https://terraria.wiki.gg/wiki/Zenith" {
		t.Errorf("URL = %q, want og:url value", page.URL)
	}
}

func TestFetchPageFallbackURL(t *testing.T) {
	c := newTestClient(t, parseHandler(t, "Apple Pie", "text", "", nil))

	page, err := c.FetchPage(context.Background(), "Apple Pie")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	want := c.BaseURL()
	// api.php is replaced by index.php in the fallback link.
	want = want[:len(want)-len("api.php")] + "index.php?title=Apple+Pie"
	if page.URL != want {
		t.Errorf("URL = %q, want %q", page.URL, want)
	}
}

func TestFetchPageCaches(t *testing.T) {
	hits := 0
	c := newTestClient(t, parseHandler(t, "Apple", "text", "", &hits))

	for i := 0; i < 3; i++ {
		if _, err := c.FetchPage(context.Background(), "Apple"); err != nil {
			t.Fatalf("FetchPage failed: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("server saw %d requests, want 1", hits)
	}
}

func TestFetchPageEmptyTitle(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	if _, err := c.FetchPage(context.Background(), ""); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		head string
		want string
	}{
		{
			name: "canonical link",
			head: `<head><link rel="canonical" href="https://en.wikipedia.org/wiki/Pear"/></head>`,
			want: "https://en.wikipedia.org/wiki/Pear",
		},
		{
			name: "og:url meta",
			head: `<head><meta property="og:url" content="https://example.org/wiki/Pear"/></head>`,
			want: "https://example.org/wiki/Pear",
		},
		{
			name: "canonical preferred over og:url",
			head: `<head><link rel="canonical" href="https://a.org/x"/><meta property="og:url" content="https://b.org/y"/></head>`,
			want: "https://a.org/x",
		},
		{
			name: "neither present",
			head: `<head><title>Pear</title></head>`,
			want: "",
		},
		{
			name: "empty head",
			head: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canonicalURL(tt.head); got != tt.want {
				t.Errorf("canonicalURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
