package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/mainbong/restaurant_finder/internal/geo"
	"github.com/mainbong/restaurant_finder/internal/httpclient"
	"github.com/mainbong/restaurant_finder/internal/logger"
)

const (
	// DefaultEndpoint is the Foursquare Places v3 search endpoint.
	DefaultEndpoint = "https://api.foursquare.com/v3/places/search"

	// DefaultFields is sent with every request so results carry what the
	// list, map and details views render.
	DefaultFields = "fsq_id,name,geocodes,location,categories,distance,rating,price,hours,closed_bucket,photos,tel,website,menu,social_media,tips"

	// DefaultLimit is the page size used by the list view.
	DefaultLimit = 10
)

// ErrFetchFailed is returned for any non-success response.
var ErrFetchFailed = errors.New("failed to fetch places")

// SearchRequest holds the inputs of a single search call. Zero values of the
// optional fields are omitted from the query string.
type SearchRequest struct {
	Query  string
	Limit  int
	Radius int
	Cursor string
	Sort   SortKey
}

// Searcher fetches a page of places.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*Page, error)
}

// Client calls the places search endpoint.
type Client struct {
	client httpclient.HTTPClient

	mu       sync.RWMutex
	apiKey   string
	endpoint string
	center   geo.Point
}

// NewClient creates a client searching around center.
func NewClient(apiKey string, center geo.Point) *Client {
	return NewClientWithHTTP(apiKey, center, httpclient.NewDefaultHTTPClient())
}

// NewClientWithHTTP creates a client with a custom HTTPClient (for testing)
func NewClientWithHTTP(apiKey string, center geo.Point, client httpclient.HTTPClient) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		center:   center,
		client:   client,
	}
}

// SetEndpoint overrides the search endpoint.
func (c *Client) SetEndpoint(endpoint string) {
	if endpoint == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoint = endpoint
}

// SetAPIKey replaces the key sent in the Authorization header.
func (c *Client) SetAPIKey(apiKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = apiKey
}

// SetCenter moves the point searches are made around.
func (c *Client) SetCenter(center geo.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.center = center
}

// Center returns the point searches are made around.
func (c *Client) Center() geo.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.center
}

// BuildURL returns the full request URL for req.
func (c *Client) BuildURL(req SearchRequest) string {
	c.mu.RLock()
	endpoint := c.endpoint
	c.mu.RUnlock()
	return endpoint + "?" + c.queryValues(req).Encode()
}

func (c *Client) queryValues(req SearchRequest) url.Values {
	center := c.Center()
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("ll", geo.FormatLL(center.Lat, center.Lon))
	params.Set("limit", strconv.Itoa(limit))
	if req.Radius > 0 {
		params.Set("radius", strconv.Itoa(req.Radius))
	}
	if req.Cursor != "" {
		params.Set("cursor", req.Cursor)
	}
	if req.Sort != "" {
		params.Set("sort", string(req.Sort))
	}
	params.Set("fields", DefaultFields)
	return params
}

// Search performs one search call. It never retries.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	fullURL := c.BuildURL(req)
	c.mu.RLock()
	apiKey := c.apiKey
	c.mu.RUnlock()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", apiKey)
	httpReq.Header.Set("Accept", "application/json")

	logger.Debug("places search: %s (authorization=%s)", fullURL, redact(apiKey))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Warn("places search returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	page.NextCursor = ParseNextCursor(resp.Header.Get("link"))

	logger.Debug("places search returned %d results (next cursor: %t)", len(page.Results), page.NextCursor != "")
	return &page, nil
}

func redact(key string) string {
	if key == "" {
		return "<empty>"
	}
	return "***REDACTED***"
}
