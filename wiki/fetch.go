package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/olgasafonova/wikifetch/metrics"
	"github.com/olgasafonova/wikifetch/wikitext"
)

// Page is the raw content of a wiki page after redirect resolution.
type Page struct {
	// Title is the canonical page title reported by the API.
	Title string
	// Wikitext is the page source markup.
	Wikitext string
	// URL is the canonical page URL for display to the user.
	URL string
}

// FetchPage retrieves the wikitext and canonical URL of a page, following
// redirects.
func (c *Client) FetchPage(ctx context.Context, title string) (*Page, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	cacheKey := "page:" + title
	if cached, ok := c.getCached(cacheKey); ok {
		page := cached.(Page)
		return &page, nil
	}

	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "wikitext|headhtml")
	params.Set("formatversion", "2")
	params.Set("format", "json")
	params.Set("redirects", "1")

	var resp struct {
		Parse struct {
			Title    string `json:"title"`
			Wikitext string `json:"wikitext"`
			HeadHTML string `json:"headhtml"`
		} `json:"parse"`
	}
	if err := c.apiGet(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("fetching page %q: %w", title, err)
	}

	pageURL := canonicalURL(resp.Parse.HeadHTML)
	if pageURL == "" {
		// Generic MediaWiki link as fallback; doesn't look as nice.
		pageURL, _ = wikitext.PageURL(c.BaseURL(), resp.Parse.Title)
	}

	page := Page{
		Title:    resp.Parse.Title,
		Wikitext: resp.Parse.Wikitext,
		URL:      pageURL,
	}
	c.setCache(cacheKey, page, "page")
	metrics.PagesFetched.Inc()

	c.logger.Debug("fetched page",
		"title", page.Title,
		"wikitext_bytes", len(page.Wikitext),
		"url", page.URL,
	)
	return &page, nil
}

// canonicalURL extracts the page's public URL from the head HTML returned
// by action=parse: <link rel=canonical> on Wikipedia, <meta
// property=og:url> on wiki.gg and Fandom.
func canonicalURL(headHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(headHTML))
	if err != nil {
		return ""
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok && href != "" {
		return href
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).Attr("content"); ok && content != "" {
		return content
	}
	return ""
}
