package cache

import (
	"sync"
)

type Key[Primary, Secondary comparable] struct {
	P Primary
	S Secondary
}

type Cache[Primary, Secondary comparable, Value any] struct {
	mu     sync.Mutex
	values map[Primary]map[Secondary]Value
}

func NewCache[P, S comparable, V any]() *Cache[P, S, V] {
	return &Cache[P, S, V]{
		values: make(map[P]map[S]V),
	}
}

func (c *Cache[P, S, V]) Set(key Key[P, S], value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.set(key, value)
}

func (c *Cache[P, S, V]) Get(key Key[P, S]) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.get(key)
}

// GetOrSet returns the stored value for key, storing and returning fallback
// when the key is absent. The check and the store run under one lock, so all
// callers racing on the same key observe the same value.
func (c *Cache[P, S, V]) GetOrSet(key Key[P, S], fallback V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value, ok := c.get(key); ok {
		return value
	}
	c.set(key, fallback)

	return fallback
}

func (c *Cache[P, S, V]) DeleteP(key P) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)
}

func (c *Cache[P, S, V]) DeleteS(key Key[P, S]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.values[key.P]; !ok {
		return
	}

	delete(c.values[key.P], key.S)
}

func (c *Cache[P, S, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.values)
}

func (c *Cache[P, S, V]) get(key Key[P, S]) (value V, ok bool) {
	if _, ok = c.values[key.P]; !ok {
		return value, false
	}

	value, ok = c.values[key.P][key.S]

	return value, ok
}

func (c *Cache[P, S, V]) set(key Key[P, S], value V) {
	if c.values[key.P] == nil {
		c.values[key.P] = make(map[S]V)
	}

	c.values[key.P][key.S] = value
}
