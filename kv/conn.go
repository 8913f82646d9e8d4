package kv

import (
	"sync"
	"time"
)

// Conn is the minimal key-value surface of the host environment's
// storage mechanism (the browser cookie jar in the original tool).
// Values expire after their TTL; a zero TTL means no expiry.
type Conn interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration) error
	Delete(key string)
}

type memEntry struct {
	value   string
	expires time.Time
}

// memConn is an in-memory Conn for tests and dev runs.
type memConn struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemConn creates an in-memory key-value connection.
func NewMemConn() Conn {
	return &memConn{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (c *memConn) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		return "", false
	}
	return e.value, true
}

func (c *memConn) Set(key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := memEntry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *memConn) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
