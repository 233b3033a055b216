// Package testutil provides helpers for deterministic block list tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// Response defines a fixed reply for a feed path.
type Response struct {
	Status int
	Body   string
}

// ListServer serves fixed block list feeds over HTTP.
type ListServer struct {
	URL      string
	server   *httptest.Server
	requests atomic.Int64
}

// StartListServer starts a feed server. Paths missing from responses get 404.
func StartListServer(t *testing.T, responses map[string]Response) *ListServer {
	t.Helper()

	ls := &ListServer{}
	ls.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ls.requests.Add(1)
		resp, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		status := resp.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp.Body))
	}))
	ls.URL = ls.server.URL

	t.Cleanup(ls.server.Close)
	return ls
}

// Feed returns the absolute URL for path.
func (s *ListServer) Feed(path string) string {
	return s.URL + "/" + strings.TrimPrefix(path, "/")
}

// Requests returns the number of requests served so far.
func (s *ListServer) Requests() int64 {
	return s.requests.Load()
}

// Lines joins lines with newlines, the way block list feeds are published.
func Lines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
