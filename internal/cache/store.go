package cache

import (
	"context"
)

// Store abstracts the versioned request→response cache.
// Implementations: Redis (production) or in-memory (local dev / tests).
// Get returns (nil, nil) on a miss. Individual operations are atomic but a
// read-then-write pair is not; concurrent writers race and the last write
// wins.
type Store interface {
	Get(ctx context.Context, version, key string) (*Entry, error)
	Set(ctx context.Context, version, key string, entry *Entry) error
	Delete(ctx context.Context, version, key string) error
	// ListVersions enumerates every version that currently holds entries.
	ListVersions(ctx context.Context) ([]string, error)
	// DeleteVersion removes a version and all of its entries.
	DeleteVersion(ctx context.Context, version string) error
}
