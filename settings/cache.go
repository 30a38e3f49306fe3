package settings

import (
	"context"
	"encoding/json"
	"time"

	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
)

// Cache is a read-through cache in front of another Store.
// Writes go straight to the backing store and drop the cached copy.
type Cache struct {
	store Store
	cache *ttlcache.Cache
}

var _ Store = (*Cache)(nil)

// NewCache wraps store, keeping values for ttl after they were last read.
func NewCache(store Store, ttl time.Duration) *Cache {
	c := ttlcache.NewCache()
	c.SetTTL(ttl)
	c.SetCacheSizeLimit(10000)
	c.SkipTTLExtensionOnHit(true)

	return &Cache{store: store, cache: c}
}

func cacheKey(scope Scope, key string) string {
	return scope.String() + ":" + key
}

func (c *Cache) Get(ctx context.Context, scope Scope, key string, v any) error {
	ck := cacheKey(scope, key)

	if cached, err := c.cache.Get(ck); err == nil {
		return errors.Wrap(json.Unmarshal(cached.(json.RawMessage), v), "unmarshaling cached value")
	}

	var raw json.RawMessage
	if err := c.store.Get(ctx, scope, key, &raw); err != nil {
		return err
	}

	_ = c.cache.Set(ck, raw)
	return errors.Wrap(json.Unmarshal(raw, v), "unmarshaling value")
}

func (c *Cache) Set(ctx context.Context, scope Scope, key string, v any) error {
	defer c.drop(scope, key)
	return c.store.Set(ctx, scope, key, v)
}

func (c *Cache) Delete(ctx context.Context, scope Scope, key string) error {
	defer c.drop(scope, key)
	return c.store.Delete(ctx, scope, key)
}

func (c *Cache) drop(scope Scope, key string) {
	_ = c.cache.Remove(cacheKey(scope, key))
}

// Close stops the cache's expiry goroutine.
func (c *Cache) Close() error {
	return c.cache.Close()
}
