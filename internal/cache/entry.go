package cache

import (
	"net/http"
	"strings"
)

// Entry is a stored response snapshot. Presence in the store is the only
// recency signal; entries are never expired individually, only evicted
// wholesale when their version is deleted.
type Entry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// Clone returns a deep copy so callers cannot alias stored state.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := &Entry{Status: e.Status, Header: e.Header.Clone()}
	if e.Body != nil {
		c.Body = make([]byte, len(e.Body))
		copy(c.Body, e.Body)
	}
	return c
}

// Key builds the normalized cache key: method plus origin-qualified URL.
// pathQuery is the request path with its raw query, e.g. "/static/app.js".
func Key(method, origin, pathQuery string) string {
	return method + " " + strings.TrimSuffix(origin, "/") + pathQuery
}
