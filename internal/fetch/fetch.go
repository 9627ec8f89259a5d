// Package fetch defines the network abstraction the strategies run
// against: a request/response snapshot pair and a Fetcher that performs
// one upstream attempt.
package fetch

import (
	"context"
	"net/http"
)

// Request is an intercepted request. Body is held as a byte slice so the
// request stays replayable: sending never consumes it.
type Request struct {
	Method string
	// URL is the path with its raw query, e.g. "/static/app.js?v=2".
	URL    string
	Header http.Header
	Body   []byte
}

// Clone returns a copy safe to hand to a background goroutine.
func (r *Request) Clone() *Request {
	c := &Request{Method: r.Method, URL: r.URL, Header: r.Header.Clone()}
	if r.Body != nil {
		c.Body = make([]byte, len(r.Body))
		copy(c.Body, r.Body)
	}
	return c
}

// Response is a fully buffered upstream response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports whether the response has the exact status that strategies
// are allowed to cache.
func (r *Response) OK() bool {
	return r.Status == http.StatusOK
}

// Fetcher performs a single network attempt. A returned error means the
// transport failed before any HTTP status was obtained; an HTTP error
// status is a successful fetch.
type Fetcher interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
