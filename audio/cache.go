package audio

import (
	"context"
	"sync"
)

type cacheEntry[V any] struct {
	value   V
	refs    int
	evicted bool
}

// assetCache stores loaded assets by path with FIFO eviction
// Values handed out by get stay alive until released; onEvict runs once the
// entry is both evicted and unused
type assetCache[V any] struct {
	mu      sync.Mutex
	store   map[string]*cacheEntry[V]
	order   []string
	limit   int
	onEvict func(V)
}

func newAssetCache[V any](limit int, onEvict func(V)) *assetCache[V] {
	return &assetCache[V]{
		store:   make(map[string]*cacheEntry[V]),
		limit:   limit,
		onEvict: onEvict,
	}
}

// get returns the cached value or loads it, with a release func the caller must call when done
// Loading runs without the lock; a concurrent load of the same path keeps the first stored value
func (c *assetCache[V]) get(ctx context.Context, path string, load func(context.Context, string) (V, error)) (V, func(), error) {
	c.mu.Lock()
	if e, ok := c.store[path]; ok {
		e.refs++
		c.mu.Unlock()
		return e.value, c.releaser(e), nil
	}
	c.mu.Unlock()

	v, err := load(ctx, path)
	if err != nil {
		var zero V
		return zero, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after reacquiring the lock
	if e, ok := c.store[path]; ok {
		c.drop(v)
		e.refs++
		return e.value, c.releaser(e), nil
	}

	for len(c.order) >= c.limit && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		c.evict(c.store[oldest])
		delete(c.store, oldest)
	}
	e := &cacheEntry[V]{value: v, refs: 1}
	c.store[path] = e
	c.order = append(c.order, path)
	return v, c.releaser(e), nil
}

func (c *assetCache[V]) releaser(e *cacheEntry[V]) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			e.refs--
			if e.evicted && e.refs == 0 {
				c.drop(e.value)
			}
		})
	}
}

// evict must be called with the lock held
func (c *assetCache[V]) evict(e *cacheEntry[V]) {
	e.evicted = true
	if e.refs == 0 {
		c.drop(e.value)
	}
}

func (c *assetCache[V]) drop(v V) {
	if c.onEvict != nil {
		c.onEvict(v)
	}
}

func (c *assetCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// purge evicts every entry; entries still in use are dropped on release
func (c *assetCache[V]) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.store {
		c.evict(e)
	}
	c.store = make(map[string]*cacheEntry[V])
	c.order = nil
}
