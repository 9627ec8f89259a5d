// Package worker is the lifecycle controller of the interception layer:
// install pre-populates the versioned store, activate evicts stale
// versions, fetch classifies and dispatches to a strategy.
package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"

	"go.uber.org/zap"

	"homeboard/offlinegate/internal/bus"
	"homeboard/offlinegate/internal/cache"
	"homeboard/offlinegate/internal/classify"
	"homeboard/offlinegate/internal/fetch"
	"homeboard/offlinegate/internal/manifest"
	"homeboard/offlinegate/internal/strategy"
)

var (
	ErrInstallFailed = errors.New("install failed")
)

// State tracks the lifecycle: installing → waiting → active. Active is
// terminal for one worker instance; a new deployment starts a new one.
type State int32

const (
	StateInstalling State = iota
	StateWaiting
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateWaiting:
		return "waiting"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type Worker struct {
	store      cache.Store
	version    string
	fetcher    fetch.Fetcher
	bus        bus.Bus
	manifest   *manifest.Manifest
	classifier *classify.Classifier
	origin     string
	logger     *zap.Logger

	cacheFirst   strategy.Strategy
	networkFirst strategy.Strategy

	state atomic.Int32
}

type Options struct {
	Store    cache.Store
	Version  string
	Fetcher  fetch.Fetcher
	Bus      bus.Bus
	Manifest *manifest.Manifest
	// Origin qualifies cache keys and the same-origin check.
	Origin       string
	StaticPrefix string
	Logger       *zap.Logger
	CacheFirst   strategy.Strategy
	NetworkFirst strategy.Strategy
}

func New(opts Options) (*Worker, error) {
	cl, err := classify.New(opts.Manifest, opts.StaticPrefix, opts.Origin)
	if err != nil {
		return nil, err
	}
	w := &Worker{
		store:        opts.Store,
		version:      opts.Version,
		fetcher:      opts.Fetcher,
		bus:          opts.Bus,
		manifest:     opts.Manifest,
		classifier:   cl,
		origin:       opts.Origin,
		logger:       opts.Logger,
		cacheFirst:   opts.CacheFirst,
		networkFirst: opts.NetworkFirst,
	}
	w.state.Store(int32(StateInstalling))
	return w, nil
}

func (w *Worker) State() State {
	return State(w.state.Load())
}

// Version returns the store version this worker serves.
func (w *Worker) Version() string {
	return w.version
}

// OnInstall fetches every manifest asset and populates the store for the
// current version. Population is atomic at the manifest level: all assets
// are fetched first and nothing is written unless every fetch yields a
// 2xx. On success the worker skips straight to waiting.
func (w *Worker) OnInstall(ctx context.Context) error {
	type fetched struct {
		key   string
		entry *cache.Entry
	}
	staged := make([]fetched, 0, w.manifest.Len())

	for _, path := range w.manifest.Assets() {
		req := &fetch.Request{Method: http.MethodGet, URL: path}
		resp, err := w.fetcher.Do(ctx, req)
		if err != nil {
			return fmt.Errorf("%w: fetch %s: %v", ErrInstallFailed, path, err)
		}
		if resp.Status < 200 || resp.Status > 299 {
			return fmt.Errorf("%w: fetch %s: status %d", ErrInstallFailed, path, resp.Status)
		}
		key := cache.Key(http.MethodGet, w.origin, path)
		staged = append(staged, fetched{key: key, entry: &cache.Entry{
			Status: resp.Status,
			Header: resp.Header,
			Body:   resp.Body,
		}})
	}

	for _, f := range staged {
		if err := w.store.Set(ctx, w.version, f.key, f.entry); err != nil {
			return fmt.Errorf("%w: store %s: %v", ErrInstallFailed, f.key, err)
		}
	}

	w.state.Store(int32(StateWaiting))
	w.logger.Info("install complete",
		zap.String("version", w.version),
		zap.Int("assets", w.manifest.Len()))
	return nil
}

// OnActivate deletes every store version except the current one and takes
// control: after it returns, fetches are served by this worker's logic.
func (w *Worker) OnActivate(ctx context.Context) error {
	versions, err := w.store.ListVersions(ctx)
	if err != nil {
		return fmt.Errorf("list versions: %w", err)
	}
	for _, v := range versions {
		if v == w.version {
			continue
		}
		if err := w.store.DeleteVersion(ctx, v); err != nil {
			return fmt.Errorf("evict version %s: %w", v, err)
		}
		w.logger.Info("evicted stale cache version", zap.String("version", v))
	}
	w.state.Store(int32(StateActive))
	w.logger.Info("worker active", zap.String("version", w.version))
	return nil
}

// OnFetch classifies the request and dispatches it. The returned error is
// non-nil only for pass-through classes whose single network attempt
// failed; intercepted classes always produce a response.
func (w *Worker) OnFetch(ctx context.Context, req *fetch.Request) (*fetch.Response, error) {
	u, err := url.ParseRequestURI(req.URL)
	if err != nil {
		return nil, fmt.Errorf("parse request url: %w", err)
	}

	// Until activation completes this worker's caching logic is not in
	// control; forward directly.
	if w.State() != StateActive {
		return w.fetcher.Do(ctx, req)
	}

	class := w.classifier.Classify(req.Method, u)
	key := cache.Key(req.Method, w.origin, req.URL)

	switch class {
	case classify.ClassUploadMutation:
		return w.handleUpload(ctx, req), nil
	case classify.ClassStaticAsset:
		return w.cacheFirst.Serve(ctx, key, req), nil
	case classify.ClassNavigation:
		return w.networkFirst.Serve(ctx, key, req), nil
	default:
		// api-read and bypass: the network alone answers; no cache hit
		// may mask staleness and no offline response is synthesized.
		return w.fetcher.Do(ctx, req)
	}
}
