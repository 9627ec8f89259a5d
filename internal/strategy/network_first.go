package strategy

import (
	"context"

	"go.uber.org/zap"

	"homeboard/offlinegate/internal/cache"
	"homeboard/offlinegate/internal/fetch"
)

// NetworkFirst serves navigations: the network wins when reachable, with
// an opportunistic write-through on 200; on transport failure the cache
// is the fallback, then the synthesized offline response.
type NetworkFirst struct {
	store   cache.Store
	version string
	fetcher fetch.Fetcher
	logger  *zap.Logger
}

func NewNetworkFirst(store cache.Store, version string, fetcher fetch.Fetcher, logger *zap.Logger) *NetworkFirst {
	return &NetworkFirst{store: store, version: version, fetcher: fetcher, logger: logger}
}

func (s *NetworkFirst) Serve(ctx context.Context, key string, req *fetch.Request) *fetch.Response {
	resp, err := s.fetcher.Do(ctx, req)
	if err == nil {
		// HTTP errors (4xx/5xx) are still network success: pass through
		// verbatim, never cache, never synthesize.
		if resp.OK() {
			if err := s.store.Set(ctx, s.version, key, responseToEntry(resp)); err != nil {
				s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return resp
	}

	entry, storeErr := s.store.Get(ctx, s.version, key)
	if storeErr != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(storeErr))
		entry = nil
	}
	if entry != nil {
		s.logger.Info("offline, serving cached copy", zap.String("key", key))
		return entryToResponse(entry)
	}
	s.logger.Info("offline, no cached copy", zap.String("key", key), zap.Error(err))
	return Offline()
}
