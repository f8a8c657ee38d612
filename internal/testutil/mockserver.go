package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// MockServer wraps httptest.Server and records what it received.
// Recording is safe for concurrent requests.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
}

// NewMockServer creates a new mock HTTP server
func NewMockServer(handler http.HandlerFunc) *MockServer {
	ms := &MockServer{}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ms.mu.Lock()
		ms.requests = append(ms.requests, r)
		ms.mu.Unlock()
		handler(w, r)
	}))

	return ms
}

// LastRequest returns the most recent request
func (ms *MockServer) LastRequest() *http.Request {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if len(ms.requests) == 0 {
		return nil
	}
	return ms.requests[len(ms.requests)-1]
}

// RequestCount returns the number of requests received
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.requests)
}

// Queries returns the query parameters of every request, in arrival order
func (ms *MockServer) Queries() []url.Values {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]url.Values, 0, len(ms.requests))
	for _, r := range ms.requests {
		out = append(out, r.URL.Query())
	}
	return out
}

// Reset clears the request history
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.requests = nil
}
