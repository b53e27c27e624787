package cache

import "sync"

// FactorCache memoizes resolved conversion factors and densities in process.
// Entries never expire: factors are immutable once written to the store, so
// a cached value can only ever be re-derived to the same number. The cache is
// owned by the engine instance that created it, not shared module state, so
// tests and workers get isolated instances.
type FactorCache struct {
	data  map[string]float64
	mutex sync.RWMutex
}

// NewFactorCache creates an empty cache.
func NewFactorCache() *FactorCache {
	return &FactorCache{
		data: make(map[string]float64),
	}
}

// Get returns the cached factor for key, if present.
func (c *FactorCache) Get(key string) (float64, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	v, ok := c.data[key]
	return v, ok
}

// Set stores a factor under key.
func (c *FactorCache) Set(key string, value float64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = value
}

// Size returns the current number of cached factors.
func (c *FactorCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all cached factors.
func (c *FactorCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]float64)
}
