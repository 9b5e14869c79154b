package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Search returns page titles matching the query, best match first, using
// the opensearch endpoint.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	cacheKey := "search:" + query
	if cached, ok := c.getCached(cacheKey); ok {
		return cached.([]string), nil
	}

	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("format", "json")

	// opensearch responds with a four-element array:
	// [query, titles, descriptions, urls]
	var resp []json.RawMessage
	if err := c.apiGet(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}
	if len(resp) < 2 {
		return nil, fmt.Errorf("unexpected opensearch response with %d elements", len(resp))
	}

	var titles []string
	if err := json.Unmarshal(resp[1], &titles); err != nil {
		return nil, fmt.Errorf("decoding search titles: %w", err)
	}
	if len(titles) == 0 {
		return nil, &NoSearchResultsError{Query: query}
	}

	c.setCache(cacheKey, titles, "search")
	return titles, nil
}
