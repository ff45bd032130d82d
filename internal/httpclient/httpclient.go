package httpclient

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request made by the default client.
const DefaultTimeout = 15 * time.Second

// HTTPClient abstracts HTTP client operations for testability
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultHTTPClient implements HTTPClient using the standard http.Client
type DefaultHTTPClient struct {
	client *http.Client
}

// NewDefaultHTTPClient creates a new DefaultHTTPClient instance
func NewDefaultHTTPClient() *DefaultHTTPClient {
	return NewHTTPClientWithTimeout(DefaultTimeout)
}

// NewHTTPClientWithTimeout creates a client whose requests give up after timeout.
func NewHTTPClientWithTimeout(timeout time.Duration) *DefaultHTTPClient {
	return &DefaultHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *DefaultHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
