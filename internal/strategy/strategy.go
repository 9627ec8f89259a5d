// Package strategy implements the two caching algorithms the worker
// dispatches to: cache-first-with-revalidation for static assets and
// network-first-with-fallback for navigations.
package strategy

import (
	"context"
	"net/http"

	"homeboard/offlinegate/internal/cache"
	"homeboard/offlinegate/internal/fetch"
)

// Strategy serves one intercepted request. It never returns an error:
// every failure mode collapses into a response, synthesized if necessary.
type Strategy interface {
	Serve(ctx context.Context, key string, req *fetch.Request) *fetch.Response
}

// Offline synthesizes the plain-text 503 returned when neither network
// nor cache can serve a request.
func Offline() *fetch.Response {
	return &fetch.Response{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		Body:   []byte("Offline"),
	}
}

func entryToResponse(e *cache.Entry) *fetch.Response {
	return &fetch.Response{Status: e.Status, Header: e.Header, Body: e.Body}
}

func responseToEntry(r *fetch.Response) *cache.Entry {
	return &cache.Entry{Status: r.Status, Header: r.Header, Body: r.Body}
}
