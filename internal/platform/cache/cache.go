// Package cache is a bounded LRU keyed by 64 bit xxhash digests
package cache

import (
	"strconv"

	"otnanalyzer/internal/platform/metrics"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Key hashes parts with a separator so ("ab","c") and ("a","bc") differ
func Key(parts ...string) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(strconv.Itoa(len(p)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(p)
	}
	return d.Sum64()
}

// LRU is safe for concurrent use. A nil *LRU is a disabled cache.
type LRU[V any] struct {
	c *lru.Cache[uint64, V]
}

// New returns an LRU holding up to size entries; size <= 0 disables caching
func New[V any](size int) *LRU[V] {
	if size <= 0 {
		return nil
	}
	c, err := lru.New[uint64, V](size)
	if err != nil {
		return nil
	}
	return &LRU[V]{c: c}
}

// Get looks up k and counts the hit or miss
func (l *LRU[V]) Get(k uint64) (V, bool) {
	if l == nil {
		var zero V
		return zero, false
	}
	v, ok := l.c.Get(k)
	if ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	return v, ok
}

// Add stores v under k, evicting the least recently used entry when full
func (l *LRU[V]) Add(k uint64, v V) {
	if l == nil {
		return
	}
	l.c.Add(k, v)
}

// Remove drops k if present
func (l *LRU[V]) Remove(k uint64) {
	if l != nil {
		l.c.Remove(k)
	}
}

// Len is the number of cached entries
func (l *LRU[V]) Len() int {
	if l == nil {
		return 0
	}
	return l.c.Len()
}

// Purge drops everything
func (l *LRU[V]) Purge() {
	if l != nil {
		l.c.Purge()
	}
}
