package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Backend is the storage a CachedStorage reads through to (Redis, Postgres).
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// CachedStorage caches reads from a remote backend with a TTL to avoid repeated
// round trips. Writes go to the backend first and refresh the cache on success.
type CachedStorage struct {
	backend Backend
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand
	rndMu   sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedValue
}

type cachedValue struct {
	value     string
	found     bool
	expiresAt time.Time
}

type lookup struct {
	value string
	found bool
}

func NewCachedStorage(backend Backend, ttl time.Duration) *CachedStorage {
	return &CachedStorage{
		backend: backend,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedValue),
	}
}

func (c *CachedStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if entry, ok := c.cached(key); ok {
		return entry.value, entry.found, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if entry, ok := c.cached(key); ok {
			return lookup{value: entry.value, found: entry.found}, nil
		}

		value, found, err := c.backend.Get(ctx, key)
		if err != nil {
			return lookup{}, err
		}
		c.store(key, value, found)
		return lookup{value: value, found: found}, nil
	})
	if err != nil {
		return "", false, err
	}
	l := result.(lookup)
	return l.value, l.found, nil
}

func (c *CachedStorage) Set(ctx context.Context, key, value string) error {
	if err := c.backend.Set(ctx, key, value); err != nil {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		return err
	}
	c.store(key, value, true)
	return nil
}

func (c *CachedStorage) cached(key string) (cachedValue, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(now) {
		return cachedValue{}, false
	}
	return entry, true
}

func (c *CachedStorage) store(key, value string, found bool) {
	expiresAt := c.clock().Add(c.ttlWithJitter())
	c.mu.Lock()
	c.cache[key] = cachedValue{value: value, found: found, expiresAt: expiresAt}
	c.mu.Unlock()
}

func (c *CachedStorage) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
