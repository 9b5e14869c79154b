package wiki

import (
	"errors"
	"os"
	"time"
)

// Config holds MediaWiki connection settings
type Config struct {
	// BaseURL is the wiki to talk to: either the full api.php endpoint
	// (e.g. https://en.wikipedia.org/w/api.php) or any page URL, in which
	// case the endpoint is discovered from the homepage.
	BaseURL string

	// Timeout for HTTP requests
	Timeout time.Duration

	// UserAgent identifies the client to the wiki
	UserAgent string
}

const defaultUserAgent = "Mozilla/5.0 (compatible) wikifetch/1.0"

// LoadConfig builds a configuration for the given wiki base URL, with
// optional overrides from environment variables.
func LoadConfig(baseURL string) (*Config, error) {
	if baseURL == "" {
		return nil, errors.New("wiki base URL is required")
	}

	timeout := 30 * time.Second
	if t := os.Getenv("WIKIFETCH_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	userAgent := os.Getenv("WIKIFETCH_USER_AGENT")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Config{
		BaseURL:   baseURL,
		Timeout:   timeout,
		UserAgent: userAgent,
	}, nil
}
