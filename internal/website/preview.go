package website

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mainbong/restaurant_finder/internal/httpclient"
	"github.com/mainbong/restaurant_finder/internal/logger"
)

// maxBodyBytes caps how much of a page is read; the head is all we need.
const maxBodyBytes = 512 * 1024

// DefaultConcurrency bounds PreviewAll.
const DefaultConcurrency = 4

var ErrNoURL = errors.New("no website")

// Preview is the summary of a restaurant's website.
type Preview struct {
	URL         string
	Title       string
	Description string
}

// Previewer fetches website previews, caching them for the process lifetime.
type Previewer struct {
	client httpclient.HTTPClient
	group  singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Preview
}

func NewPreviewer() *Previewer {
	return NewPreviewerWithClient(httpclient.NewDefaultHTTPClient())
}

// NewPreviewerWithClient creates a previewer with a custom HTTPClient (for testing)
func NewPreviewerWithClient(client httpclient.HTTPClient) *Previewer {
	return &Previewer{
		client: client,
		cache:  make(map[string]*Preview),
	}
}

// Cached returns a previously fetched preview.
func (p *Previewer) Cached(rawURL string) (*Preview, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	preview, ok := p.cache[rawURL]
	return preview, ok
}

// Preview returns the title and description of the page at rawURL.
// Concurrent calls for the same URL share one request.
func (p *Previewer) Preview(ctx context.Context, rawURL string) (*Preview, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrNoURL
	}
	if preview, ok := p.Cached(rawURL); ok {
		return preview, nil
	}

	v, err, shared := p.group.Do(rawURL, func() (interface{}, error) {
		preview, err := p.fetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cache[rawURL] = preview
		p.mu.Unlock()
		return preview, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("website preview shared for %s", rawURL)
	}
	return v.(*Preview), nil
}

// PreviewAll fetches previews for several URLs with bounded concurrency.
// Failures are logged and skipped; the map holds only successful previews.
func (p *Previewer) PreviewAll(ctx context.Context, urls []string) map[string]*Preview {
	var mu sync.Mutex
	out := make(map[string]*Preview, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)
	for _, u := range urls {
		u := u
		if strings.TrimSpace(u) == "" {
			continue
		}
		g.Go(func() error {
			preview, err := p.Preview(gCtx, u)
			if err != nil {
				logger.Warn("website preview failed for %s: %v", u, err)
				return nil
			}
			mu.Lock()
			out[u] = preview
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (p *Previewer) fetch(ctx context.Context, rawURL string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; restaurant-finder)")
	req.Header.Set("Accept", "text/html")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("website returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	preview, err := ParsePreview(string(body))
	if err != nil {
		return nil, err
	}
	preview.URL = rawURL
	return preview, nil
}

// ParsePreview extracts the <title> and the description meta tag from an
// HTML document. og:description is used when name=description is missing.
func ParsePreview(raw string) (*Preview, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	preview := &Preview{}
	var ogDescription, ogTitle string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if preview.Title == "" {
					preview.Title = collapseSpace(nodeText(n))
				}
			case "meta":
				content := collapseSpace(getAttr(n, "content"))
				switch {
				case strings.EqualFold(getAttr(n, "name"), "description"):
					if preview.Description == "" {
						preview.Description = content
					}
				case strings.EqualFold(getAttr(n, "property"), "og:description"):
					ogDescription = content
				case strings.EqualFold(getAttr(n, "property"), "og:title"):
					ogTitle = content
				}
			case "body":
				// metadata lives in the head
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if preview.Description == "" {
		preview.Description = ogDescription
	}
	if preview.Title == "" {
		preview.Title = ogTitle
	}
	return preview, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
