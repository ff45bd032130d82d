package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

type mockResponse struct {
	statusCode int
	body       []byte
	header     http.Header
}

// MockHTTPClient is a mock implementation of HTTPClient for testing.
// Responses are matched by full URL first, then by URL without its query
// string, then fall back to the default response (404 when unset).
type MockHTTPClient struct {
	mu          sync.Mutex
	responses   map[string]mockResponse
	errors      map[string]error
	defaultResp *mockResponse
	requests    []*http.Request
}

// NewMockHTTPClient creates a new MockHTTPClient instance
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		responses: make(map[string]mockResponse),
		errors:    make(map[string]error),
	}
}

// SetResponse sets a mock response for a URL, with or without query string
func (m *MockHTTPClient) SetResponse(url string, statusCode int, body string, headers map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[url] = newMockResponse(statusCode, body, headers)
}

// SetDefaultResponse sets the response returned when no URL matches
func (m *MockHTTPClient) SetDefaultResponse(statusCode int, body string, headers map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp := newMockResponse(statusCode, body, headers)
	m.defaultResp = &resp
}

// SetError sets an error to return for a URL
func (m *MockHTTPClient) SetError(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[url] = err
}

// GetRequests returns all requests made to this client
func (m *MockHTTPClient) GetRequests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*http.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of requests made to this client
func (m *MockHTTPClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// ClearRequests clears the request history
func (m *MockHTTPClient) ClearRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	full := req.URL.String()
	base := *req.URL
	base.RawQuery = ""
	base.Fragment = ""
	keys := []string{full, base.String()}

	for _, key := range keys {
		if err, ok := m.errors[key]; ok {
			return nil, err
		}
	}
	for _, key := range keys {
		if resp, ok := m.responses[key]; ok {
			return resp.build(), nil
		}
	}
	if m.defaultResp != nil {
		return m.defaultResp.build(), nil
	}

	return newMockResponse(http.StatusNotFound, "Not Found", nil).build(), nil
}

func newMockResponse(statusCode int, body string, headers map[string]string) mockResponse {
	header := make(http.Header)
	for k, v := range headers {
		header.Set(k, v)
	}
	return mockResponse{statusCode: statusCode, body: []byte(body), header: header}
}

// build creates a fresh response since a body can only be read once
func (r mockResponse) build() *http.Response {
	return &http.Response{
		Status:     http.StatusText(r.statusCode),
		StatusCode: r.statusCode,
		Body:       io.NopCloser(bytes.NewReader(r.body)),
		Header:     r.header.Clone(),
	}
}
