package wiki

import "fmt"

// Fetch-layer failures are surfaced to the caller as distinct error kinds
// and are never retried here; transient-failure policy belongs to whoever
// drives the client.

// APIError is an error payload returned by the MediaWiki API
// ({"error": {"code": ..., "info": ...}}).
type APIError struct {
	Code string
	Info string
	URL  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("MediaWiki API error [%s]: %s - %s", e.Code, e.Info, e.URL)
}

// NoSearchResultsError indicates a search query matched no pages.
type NoSearchResultsError struct {
	Query string
}

func (e *NoSearchResultsError) Error() string {
	return fmt.Sprintf("no search results for %q", e.Query)
}

// EndpointNotFoundError indicates endpoint discovery found no api.php
// reference on the wiki's homepage.
type EndpointNotFoundError struct {
	URL string
}

func (e *EndpointNotFoundError) Error() string {
	return fmt.Sprintf("could not find a MediaWiki API endpoint from %s - try passing the full path to the wiki's api.php", e.URL)
}
