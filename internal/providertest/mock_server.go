// Package providertest provides a mock upstream HTTP server and canned
// wire payloads for testing the provider adapters.
package providertest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// StreamFormat selects the wire framing for streamed mock responses.
type StreamFormat int

const (
	// StreamSSE frames each chunk as an SSE data line
	StreamSSE StreamFormat = iota

	// StreamSSEDone is StreamSSE plus a trailing [DONE] sentinel
	StreamSSEDone

	// StreamNDJSON writes each chunk as one raw JSON line
	StreamNDJSON
)

// MockResponse defines one canned upstream response.
type MockResponse struct {
	StatusCode   int
	Body         any
	Delay        time.Duration
	Headers      map[string]string
	StreamChunks []string
	StreamFormat StreamFormat
}

// CapturedRequest records one request the mock server received.
type CapturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// MockServer simulates a provider API for adapter tests.
type MockServer struct {
	server    *httptest.Server
	mu        sync.Mutex
	responses map[string]MockResponse
	requests  []CapturedRequest
}

// NewMockServer creates and starts a mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close stops the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse registers the canned response for a path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = response
}

// RequestCount returns the number of requests received.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.requests)
}

// LastRequest returns the most recent captured request, or nil if none.
func (ms *MockServer) LastRequest() *CapturedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if len(ms.requests) == 0 {
		return nil
	}
	req := ms.requests[len(ms.requests)-1]
	return &req
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ms.mu.Lock()
	ms.requests = append(ms.requests, CapturedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	if len(response.StreamChunks) > 0 {
		ms.handleStream(w, response)
		return
	}

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	switch v := response.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(v))
	case []byte:
		_, _ = w.Write(v)
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (ms *MockServer) handleStream(w http.ResponseWriter, response MockResponse) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	switch response.StreamFormat {
	case StreamNDJSON:
		w.Header().Set("Content-Type", "application/x-ndjson")
	default:
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
	}

	for _, chunk := range response.StreamChunks {
		switch response.StreamFormat {
		case StreamNDJSON:
			fmt.Fprintf(w, "%s\n", chunk)
		default:
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		flusher.Flush()
	}

	if response.StreamFormat == StreamSSEDone {
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}
}
