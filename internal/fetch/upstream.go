package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Hop-by-hop headers are stripped in both directions.
var hopByHop = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Proxy-Connection":    {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

// CopyHeader copies src into dst, skipping hop-by-hop headers.
func CopyHeader(dst, src http.Header) {
	for k, vals := range src {
		if _, skip := hopByHop[http.CanonicalHeaderKey(k)]; skip {
			continue
		}
		for _, v := range vals {
			dst.Add(k, v)
		}
	}
}

type upstreamFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewUpstream returns a Fetcher that forwards requests to the origin base
// URL. timeout zero disables the client timeout.
func NewUpstream(origin string, timeout time.Duration) (Fetcher, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse upstream origin: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream origin %q must be an absolute URL", origin)
	}
	return &upstreamFetcher{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (f *upstreamFetcher) Do(ctx context.Context, req *Request) (*Response, error) {
	target := strings.TrimSuffix(f.base.String(), "/") + req.URL

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	CopyHeader(httpReq.Header, req.Header)
	httpReq.Header.Del("Host")

	httpResp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	header := make(http.Header, len(httpResp.Header))
	CopyHeader(header, httpResp.Header)
	return &Response{Status: httpResp.StatusCode, Header: header, Body: respBody}, nil
}
