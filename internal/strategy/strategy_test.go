package strategy

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"homeboard/offlinegate/internal/cache"
	"homeboard/offlinegate/internal/fetch"
)

// failingStore errors on every operation, standing in for quota or
// backend trouble.
type failingStore struct{}

func (failingStore) Get(context.Context, string, string) (*cache.Entry, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) Set(context.Context, string, string, *cache.Entry) error {
	return errors.New("store unavailable")
}

func (failingStore) Delete(context.Context, string, string) error {
	return errors.New("store unavailable")
}

func (failingStore) ListVersions(context.Context) ([]string, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) DeleteVersion(context.Context, string) error {
	return errors.New("store unavailable")
}

var errNetworkDown = errors.New("connection refused")

// fakeFetcher records calls and answers from a programmable handler.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   []string
	handler func(req *fetch.Request) (*fetch.Response, error)
}

func (f *fakeFetcher) Do(_ context.Context, req *fetch.Request) (*fetch.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.Method+" "+req.URL)
	f.mu.Unlock()
	return f.handler(req)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func okResponse(body string) *fetch.Response {
	return &fetch.Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"text/html"}},
		Body:   []byte(body),
	}
}

func seedEntry(t *testing.T, store cache.Store, version, key, body string) {
	t.Helper()
	err := store.Set(context.Background(), version, key, &cache.Entry{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"text/html"}},
		Body:   []byte(body),
	})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}
}

func getEntry(t *testing.T, store cache.Store, version, key string) *cache.Entry {
	t.Helper()
	entry, err := store.Get(context.Background(), version, key)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	return entry
}

func waitFor(t *testing.T, ch <-chan string, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for %s", what)
	}
}
