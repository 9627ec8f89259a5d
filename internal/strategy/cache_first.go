package strategy

import (
	"context"

	"go.uber.org/zap"

	"homeboard/offlinegate/internal/cache"
	"homeboard/offlinegate/internal/fetch"
)

// CacheFirst serves static assets: a stored entry is returned immediately
// and refreshed in the background; a miss goes to the network with a
// write-through on 200.
type CacheFirst struct {
	store   cache.Store
	version string
	fetcher fetch.Fetcher
	logger  *zap.Logger

	// afterRevalidate is a test hook invoked when a background
	// revalidation finishes, whatever its outcome.
	afterRevalidate func(key string)
}

func NewCacheFirst(store cache.Store, version string, fetcher fetch.Fetcher, logger *zap.Logger) *CacheFirst {
	return &CacheFirst{store: store, version: version, fetcher: fetcher, logger: logger}
}

func (s *CacheFirst) Serve(ctx context.Context, key string, req *fetch.Request) *fetch.Response {
	entry, err := s.store.Get(ctx, s.version, key)
	if err != nil {
		// Store trouble must not take down the fetch path; treat as miss.
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		entry = nil
	}
	if entry != nil {
		// Serve the hit now; refresh in the background. The revalidation
		// outlives this handler, so it runs on a detached context.
		go s.revalidate(context.WithoutCancel(ctx), key, req.Clone())
		return entryToResponse(entry)
	}

	resp, err := s.fetcher.Do(ctx, req)
	if err != nil {
		s.logger.Info("offline, no cached copy", zap.String("key", key), zap.Error(err))
		return Offline()
	}
	if resp.OK() {
		if err := s.store.Set(ctx, s.version, key, responseToEntry(resp)); err != nil {
			s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return resp
}

// revalidate refreshes a served entry. Failures are swallowed: the caller
// already has its response.
func (s *CacheFirst) revalidate(ctx context.Context, key string, req *fetch.Request) {
	if s.afterRevalidate != nil {
		defer s.afterRevalidate(key)
	}
	resp, err := s.fetcher.Do(ctx, req)
	if err != nil {
		s.logger.Debug("revalidation failed", zap.String("key", key), zap.Error(err))
		return
	}
	if !resp.OK() {
		return
	}
	if err := s.store.Set(ctx, s.version, key, responseToEntry(resp)); err != nil {
		s.logger.Warn("revalidation write failed", zap.String("key", key), zap.Error(err))
	}
}
