package wiki

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Init resolves the wiki's api.php endpoint. A base URL without a scheme
// gets https prepended; one whose path already contains api.php is used
// as-is; anything else is treated as a homepage and scraped for the first
// <link> tag that points at an api.php.
func (c *Client) Init(ctx context.Context) error {
	if c.BaseURL() != "" {
		return nil
	}

	baseURL := c.config.BaseURL
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parsing base URL %q: %w", c.config.BaseURL, err)
	}

	if strings.Contains(strings.ToLower(parsed.Path), "api.php") {
		c.setBaseURL(baseURL)
		return nil
	}

	endpoint, err := c.discoverEndpoint(ctx, baseURL)
	if err != nil {
		return err
	}
	c.setBaseURL(endpoint)
	return nil
}

// discoverEndpoint fetches the homepage and looks for a <link> whose href
// path contains api.php (MediaWiki advertises RSD and EditURI links that
// do). The query is stripped and the result resolved against the
// homepage URL.
func (c *Client) discoverEndpoint(ctx context.Context, homeURL string) (string, error) {
	body, err := c.get(ctx, homeURL)
	if err != nil {
		return "", fmt.Errorf("fetching homepage: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing homepage HTML: %w", err)
	}

	home, err := url.Parse(homeURL)
	if err != nil {
		return "", fmt.Errorf("parsing homepage URL: %w", err)
	}

	var found string
	doc.Find("link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		if !strings.Contains(strings.ToLower(ref.Path), "api.php") {
			return true
		}
		ref.RawQuery = ""
		ref.Fragment = ""
		found = home.ResolveReference(ref).String()
		return false
	})

	if found == "" {
		return "", &EndpointNotFoundError{URL: homeURL}
	}
	c.logger.Info("discovered API endpoint", "home_url", homeURL, "api_url", found)
	return found, nil
}
