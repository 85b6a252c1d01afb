package driftapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
)

// configCacheVersion defines the version of the cached config schema
const configCacheVersion = 1

// CachedConfigSource is a read-through cache of repository configurations.
// Entries older than the TTL or written with another version are refetched.
// A nil store disables caching.
type CachedConfigSource struct {
	upstream contract.ConfigSource
	store    contract.CacheStore
	ttl      time.Duration // 0 means entries never expire
	now      func() time.Time
	warn     func(msg string, err error)
}

var _ contract.ConfigSource = &CachedConfigSource{} // Compile-time check

// NewCachedConfigSource wraps upstream with a cache backed by store.
func NewCachedConfigSource(upstream contract.ConfigSource, store contract.CacheStore, ttl time.Duration) *CachedConfigSource {
	return &CachedConfigSource{
		upstream: upstream,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		warn:     contract.LogWarn,
	}
}

// ConfigCacheKey returns the cache key of a repository configuration.
func ConfigCacheKey(owner, repo string) string {
	return fmt.Sprintf("config-%s/%s", owner, repo)
}

// GetConfig returns the cached configuration or fetches and stores it.
func (s *CachedConfigSource) GetConfig(ctx context.Context, owner, repo string) (schema.RepoConfig, error) {
	if s.store == nil {
		return s.upstream.GetConfig(ctx, owner, repo)
	}

	key := ConfigCacheKey(owner, repo)
	if cfg, ok := s.checkCacheHit(key); ok {
		return cfg, nil
	}

	cfg, err := s.upstream.GetConfig(ctx, owner, repo)
	if err != nil {
		return schema.RepoConfig{}, err
	}

	data, err := json.Marshal(cfg)
	if err == nil {
		err = s.store.Set(key, data, configCacheVersion, s.now().Unix())
	}
	if err != nil {
		s.warn("Failed to cache config for "+owner+"/"+repo, err)
	}
	return cfg, nil
}

// checkCacheHit attempts to retrieve and validate a cached config
func (s *CachedConfigSource) checkCacheHit(key string) (schema.RepoConfig, bool) {
	data, version, ts, err := s.store.Get(key)
	if err != nil || data == nil {
		return schema.RepoConfig{}, false
	}
	if version != configCacheVersion {
		return schema.RepoConfig{}, false
	}
	if s.ttl > 0 && s.now().Sub(time.Unix(ts, 0)) > s.ttl {
		return schema.RepoConfig{}, false
	}
	var cfg schema.RepoConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return schema.RepoConfig{}, false
	}
	return cfg, true
}

// Invalidate drops the cached configuration of a repository.
func (s *CachedConfigSource) Invalidate(owner, repo string) error {
	if s.store == nil {
		return nil
	}
	return s.store.Delete(ConfigCacheKey(owner, repo))
}
