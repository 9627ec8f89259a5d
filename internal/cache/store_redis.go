package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Store backed by Redis. Entries live under
// "<prefix>:<version>:<key>" so a whole version can be enumerated and
// evicted by pattern.
func NewRedisStore(client *redis.Client, prefix string) Store {
	if prefix == "" {
		prefix = "offcache"
	}
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) redisKey(version, key string) string {
	return s.prefix + ":" + version + ":" + key
}

func (s *redisStore) Get(ctx context.Context, version, key string) (*Entry, error) {
	val, err := s.client.Get(ctx, s.redisKey(version, key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry := &Entry{}
	if err := json.Unmarshal(val, entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return entry, nil
}

func (s *redisStore) Set(ctx context.Context, version, key string, entry *Entry) error {
	val, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return s.client.Set(ctx, s.redisKey(version, key), val, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, version, key string) error {
	return s.client.Del(ctx, s.redisKey(version, key)).Err()
}

func (s *redisStore) ListVersions(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	iter := s.client.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		rest := strings.TrimPrefix(iter.Val(), s.prefix+":")
		// The version segment cannot contain ':'; the key after it can.
		if i := strings.Index(rest, ":"); i > 0 {
			seen[rest[:i]] = struct{}{}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions, nil
}

func (s *redisStore) DeleteVersion(ctx context.Context, version string) error {
	iter := s.client.Scan(ctx, 0, s.prefix+":"+version+":*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.client.Del(ctx, batch...).Err()
	}
	return nil
}
