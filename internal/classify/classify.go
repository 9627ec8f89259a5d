// Package classify maps an incoming request to the strategy that should
// serve it. Classification is pure: no I/O, no store access.
package classify

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"homeboard/offlinegate/internal/manifest"
)

type Class int

const (
	// ClassBypass requests are forwarded verbatim: no caching, no
	// offline fallback. Covers non-GET mutations (the backend alone owns
	// those) and cross-origin traffic.
	ClassBypass Class = iota
	// ClassStaticAsset requests are served cache-first.
	ClassStaticAsset
	// ClassAPIRead requests always go to the network; staleness on API
	// reads must not be masked by a cache hit.
	ClassAPIRead
	// ClassUploadMutation is the voice-clip POST that must never fail
	// silently offline.
	ClassUploadMutation
	// ClassNavigation requests are served network-first.
	ClassNavigation
)

func (c Class) String() string {
	switch c {
	case ClassBypass:
		return "bypass"
	case ClassStaticAsset:
		return "static-asset"
	case ClassAPIRead:
		return "api-read"
	case ClassUploadMutation:
		return "api-mutation-upload"
	case ClassNavigation:
		return "navigation"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

const (
	uploadPath = "/api/speech"
	apiPrefix  = "/api/"
)

type Classifier struct {
	manifest     *manifest.Manifest
	staticPrefix string
	originHost   string
}

// New builds a classifier. origin is the public origin of the application;
// requests carrying a different host are treated as cross-origin.
func New(m *manifest.Manifest, staticPrefix, origin string) (*Classifier, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if staticPrefix == "" {
		staticPrefix = "/static/"
	}
	return &Classifier{
		manifest:     m,
		staticPrefix: staticPrefix,
		originHost:   u.Host,
	}, nil
}

// Classify applies the routing rules in priority order. The ordering is
// load-bearing: the upload rule precedes the generic non-GET bypass, and
// the /api/ rule precedes manifest matching so API traffic is never served
// from the static cache even if paths collide.
func (cl *Classifier) Classify(method string, u *url.URL) Class {
	if method == http.MethodPost && u.Path == uploadPath {
		return ClassUploadMutation
	}
	if method != http.MethodGet {
		return ClassBypass
	}
	if strings.HasPrefix(u.Path, apiPrefix) {
		return ClassAPIRead
	}
	if u.Host != "" && u.Host != cl.originHost {
		return ClassBypass
	}
	if cl.manifest.Contains(u.Path) || strings.HasPrefix(u.Path, cl.staticPrefix) {
		return ClassStaticAsset
	}
	return ClassNavigation
}
